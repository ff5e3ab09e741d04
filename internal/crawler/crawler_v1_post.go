package crawler

import (
	"context"

	"github.com/tunetouch/tiktok-crawler/internal/model"
)

// collectPosts duyệt vertical × page cho trending videos.
// Thứ tự duyệt quyết định thứ tự record trong batch và phải giữ nguyên.
func (c *CrawlerV1) collectPosts(ctx context.Context, crawlDate, crawlTime string) []model.PostMessage {
	batch := make([]model.PostMessage, 0)

	for _, vertical := range c.Config.TiktokApi.Verticals {
		for page := 0; page < c.Config.TiktokApi.TargetPages; page++ {
			c.waitForSlot()

			result, err := c.Caller.FetchTrendingVideos(ctx, vertical, page)
			if err != nil {
				// Một trang hỏng không hủy cả run
				c.Logger.Error(ctx, "Không thể lấy trending videos: %v", err)
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
