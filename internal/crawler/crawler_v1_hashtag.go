package crawler

import (
	"context"

	"github.com/tunetouch/tiktok-crawler/internal/model"
)

// collectHashtags chỉ duyệt theo page, không có chiều vertical
func (c *CrawlerV1) collectHashtags(ctx context.Context, crawlDate, crawlTime string) []model.HashtagMessage {
	batch := make([]model.HashtagMessage, 0)

	api := c.Config.TiktokApi
	for page := 0; page < api.TargetPages; page++ {
		c.waitForSlot()

		result, err := c.Caller.FetchTrendingHashtags(ctx, page, api.HashtagLimit, api.HashtagPeriod, api.HashtagCountry)
		if err != nil {
			c.Logger.Error(ctx, "Không thể lấy trending hashtags: %v", err)
		} else {
			for i := range result {
				result[i].CrawlDate = crawlDate
				result[i].CrawlTime = crawlTime
			}
			batch = append(batch, result...)
		}

		c.sleepBetweenCalls()
	}

	return batch
}
