// Crawler version 1
// Chạy tuần tự, đơn luồng: duyệt ma trận vertical × page cho từng họ record,
// gom batch trong bộ nhớ và ghi thẳng vào database khi một họ hoàn tất.
// Một (vertical, page) hỏng không làm sập cả run.

package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/internal/limiter"
	"github.com/tunetouch/tiktok-crawler/internal/model"
	tiktokapi "github.com/tunetouch/tiktok-crawler/internal/tiktok_api"
	"github.com/tunetouch/tiktok-crawler/pkg/db"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

type CrawlerV1 struct {
	Logger      log.Logger
	Config      *cfg.Config
	Sqlite      *db.Sqlite
	Caller      *tiktokapi.Caller
	PostMd      *model.Post
	CreatorMd   *model.Creator
	HashtagMd   *model.Hashtag
	rateLimiter *limiter.RateLimiter
	counts      CrawlCounts
}

func NewCrawlerV1(logger log.Logger, config *cfg.Config, sqlite *db.Sqlite) (*CrawlerV1, error) {
	postMd, err := model.NewPost(config, logger, sqlite)
	if err != nil {
		return nil, fmt.Errorf("failed to create post model: %w", err)
	}

	creatorMd, err := model.NewCreator(config, logger, sqlite)
	if err != nil {
		return nil, fmt.Errorf("failed to create creator model: %w", err)
	}

	hashtagMd, err := model.NewHashtag(config, logger, sqlite)
	if err != nil {
		return nil, fmt.Errorf("failed to create hashtag model: %w", err)
	}

	caller := tiktokapi.NewCaller(logger, config, tiktokapi.CredentialFromConfig(config))
	rateLimiter := limiter.NewRateLimiter(config.TiktokApi.RequestsPerSecond)

	return &CrawlerV1{
		Logger:      logger,
		Config:      config,
		Sqlite:      sqlite,
		Caller:      caller,
		PostMd:      postMd,
		CreatorMd:   creatorMd,
		HashtagMd:   hashtagMd,
		rateLimiter: rateLimiter,
	}, nil
}

func (c *CrawlerV1) Crawl() bool {
	ctx := context.Background()
	startTime := time.Now()

	// Một run dùng chung một mốc crawl cho mọi record nó tạo ra
	crawlDate := startTime.Format("2006-01-02")
	crawlTime := startTime.Format("15:04:05")

	c.Logger.Info(ctx, "Bắt đầu crawl dữ liệu trending TikTok vào %s", startTime.Format(time.RFC3339))

	// --- Trending Videos ---
	posts := c.collectPosts(ctx, crawlDate, crawlTime)
	attempted, inserted, err := c.PostMd.CreateBatch(posts)
	if err != nil {
		c.Logger.Error(ctx, "Không thể lưu batch posts: %v", err)
		return false
	}
	c.counts.Posts = inserted
	c.Logger.Info(ctx, "Saved posts: %d attempted, %d new (duplicates ignored)", attempted, inserted)

	// --- Trending Creators ---
	creators := c.collectCreators(ctx, crawlDate, crawlTime)
	attempted, inserted, err = c.CreatorMd.CreateBatch(creators)
	if err != nil {
		c.Logger.Error(ctx, "Không thể lưu batch creators: %v", err)
		return false
	}
	c.counts.Creators = inserted
	c.Logger.Info(ctx, "Saved creators: %d attempted, %d new (duplicates ignored)", attempted, inserted)

	// --- Trending Hashtags ---
	hashtags := c.collectHashtags(ctx, crawlDate, crawlTime)
	attempted, inserted, err = c.HashtagMd.CreateBatch(hashtags)
	if err != nil {
		c.Logger.Error(ctx, "Không thể lưu batch hashtags: %v", err)
		return false
	}
	c.counts.Hashtags = inserted
	c.Logger.Info(ctx, "Saved hashtags: %d attempted, %d new (duplicates ignored)", attempted, inserted)

	endTime := time.Now()
	c.Logger.Info(ctx, "==== KẾT QUẢ CRAWL ====")
	c.Logger.Info(ctx, "Thời gian bắt đầu: %s", startTime.Format(time.RFC3339))
	c.Logger.Info(ctx, "Thời gian kết thúc: %s", endTime.Format(time.RFC3339))
	c.Logger.Info(ctx, "Tổng thời gian thực hiện: %v", endTime.Sub(startTime))
	c.Logger.Info(ctx, "Posts mới: %d", c.counts.Posts)
	c.Logger.Info(ctx, "Creators mới: %d", c.counts.Creators)
	c.Logger.Info(ctx, "Hashtags mới: %d", c.counts.Hashtags)

	return true
}

func (c *CrawlerV1) Stats() CrawlCounts {
	return c.counts
}

// waitForSlot chặn tới khi rate limiter cho phép request kế tiếp
func (c *CrawlerV1) waitForSlot() {
	for !c.rateLimiter.Allow() {
		time.Sleep(time.Duration(c.Config.TiktokApi.ThrottleDelay) * time.Millisecond)
	}
}

// sleepBetweenCalls là khoảng nghỉ cố định giữa hai lần gọi upstream,
// không phải cơ chế retry
func (c *CrawlerV1) sleepBetweenCalls() {
	time.Sleep(time.Duration(c.Config.TiktokApi.ThrottleDelay) * time.Millisecond)
}
