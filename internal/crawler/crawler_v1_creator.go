package crawler

import (
	"context"

	"github.com/tunetouch/tiktok-crawler/internal/model"
)

// collectCreators duyệt vertical × page cho trending creators.
// creator_rank đã được caller gán theo vị trí toàn cục qua các trang,
// nên thứ tự duyệt page phải tăng dần trong từng vertical.
func (c *CrawlerV1) collectCreators(ctx context.Context, crawlDate, crawlTime string) []model.CreatorMessage {
	batch := make([]model.CreatorMessage, 0)

	for _, vertical := range c.Config.TiktokApi.Verticals {
		for page := 0; page < c.Config.TiktokApi.TargetPages; page++ {
			c.waitForSlot()

			result, err := c.Caller.FetchTrendingCreators(ctx, vertical, page)
			if err != nil {
				c.Logger.Error(ctx, "Không thể lấy trending creators: %v", err)
			} else {
				for i := range result {
					result[i].CrawlDate = crawlDate
					result[i].CrawlTime = crawlTime
				}
				batch = append(batch, result...)
			}

			c.sleepBetweenCalls()
		}
	}

	return batch
}
