// Crawler v2
// Dựa trên CrawlerV1 nhưng sử dụng Kafka thay vì ghi trực tiếp vào database.
// Gửi từng record vào topic tương ứng, consumer (cmd/consumer) chịu trách nhiệm
// ghi vào database với cùng ngữ nghĩa insert-or-ignore.

package crawler

import (
	"context"
	"time"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/pkg/db"
	kafkapkg "github.com/tunetouch/tiktok-crawler/pkg/kafka"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

type CrawlerV2 struct {
	*CrawlerV1
	postProducer    *kafkapkg.Producer
	creatorProducer *kafkapkg.Producer
	hashtagProducer *kafkapkg.Producer
}

func NewCrawlerV2(logger log.Logger, config *cfg.Config, sqlite *db.Sqlite) (*CrawlerV2, error) {
	v1, err := NewCrawlerV1(logger, config, sqlite)
	if err != nil {
		return nil, err
	}

	// Khởi tạo Kafka producers
	postProducer := kafkapkg.NewProducer(config, logger, config.Kafka.Producer.TopicPost)
	creatorProducer := kafkapkg.NewProducer(config, logger, config.Kafka.Producer.TopicCreator)
	hashtagProducer := kafkapkg.NewProducer(config, logger, config.Kafka.Producer.TopicHashtag)

	return &CrawlerV2{
		CrawlerV1:       v1,
		postProducer:    postProducer,
		creatorProducer: creatorProducer,
		hashtagProducer: hashtagProducer,
	}, nil
}

func (c *CrawlerV2) Crawl() bool {
	ctx := context.Background()
	startTime := time.Now()

	crawlDate := startTime.Format("2006-01-02")
	crawlTime := startTime.Format("15:04:05")

	c.Logger.Info(ctx, "Bắt đầu crawl dữ liệu trending TikTok (publish Kafka) vào %s", startTime.Format(time.RFC3339))

	// --- Trending Videos ---
	published := 0
	for _, msg := range c.collectPosts(ctx, crawlDate, crawlTime) {
		if err := c.postProducer.Publish(ctx, "post", msg); err != nil {
			c.Logger.Error(ctx, "Không thể publish post: %v", err)
			continue
		}
		published++
	}
	c.counts.Posts = published
	c.Logger.Info(ctx, "Published %d posts to %s", published, c.Config.Kafka.Producer.TopicPost)

	// --- Trending Creators ---
	published = 0
	for _, msg := range c.collectCreators(ctx, crawlDate, crawlTime) {
		if err := c.creatorProducer.Publish(ctx, "creator", msg); err != nil {
			c.Logger.Error(ctx, "Không thể publish creator: %v", err)
			continue
		}
		published++
	}
	c.counts.Creators = published
	c.Logger.Info(ctx, "Published %d creators to %s", published, c.Config.Kafka.Producer.TopicCreator)

	// --- Trending Hashtags ---
	published = 0
	for _, msg := range c.collectHashtags(ctx, crawlDate, crawlTime) {
		if err := c.hashtagProducer.Publish(ctx, "hashtag", msg); err != nil {
			c.Logger.Error(ctx, "Không thể publish hashtag: %v", err)
			continue
		}
		published++
	}
	c.counts.Hashtags = published
	c.Logger.Info(ctx, "Published %d hashtags to %s", published, c.Config.Kafka.Producer.TopicHashtag)

	c.Logger.Info(ctx, "Tổng thời gian thực hiện: %v", time.Since(startTime))

	return true
}

func (c *CrawlerV2) Close() error {
	c.postProducer.Close()
	c.creatorProducer.Close()
	return c.hashtagProducer.Close()
}
