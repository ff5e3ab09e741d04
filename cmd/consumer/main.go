package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/internal/model"
	"github.com/tunetouch/tiktok-crawler/pkg/db"
	"github.com/tunetouch/tiktok-crawler/pkg/kafka"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

func main() {
	// Parse command line arguments
	consumerType := flag.String("type", "", "Type of consumer to run (posts, creators, hashtags)")
	flag.Parse()

	if *consumerType == "" {
		fmt.Println("Please specify a consumer type: -type=[posts|creators|hashtags]")
		os.Exit(1)
	}

	// Load configuration
	loader, _ := cfg.NewViperLoader()
	config, err := loader.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, _ := log.NewCslLogger()

	// Setup database
	sqlite, err := db.NewSqlite(config)
	if err != nil {
		logger.Error(context.Background(), "Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create models
	postModel, _ := model.NewPost(config, logger, sqlite)
	creatorModel, _ := model.NewCreator(config, logger, sqlite)
	hashtagModel, _ := model.NewHashtag(config, logger, sqlite)

	// Consumer chỉ ghi dữ liệu, nên phải đảm bảo bảng đã tồn tại trước
	if err := sqlite.Migrate(postModel, creatorModel, hashtagModel); err != nil {
		logger.Error(ctx, "Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Start the appropriate consumer based on type
	switch *consumerType {
	case "posts":
		startPostConsumer(ctx, config, logger, postModel)
	case "creators":
		startCreatorConsumer(ctx, config, logger, creatorModel)
	case "hashtags":
		startHashtagConsumer(ctx, config, logger, hashtagModel)
	default:
		logger.Error(ctx, "Unknown consumer type: %s", *consumerType)
		os.Exit(1)
	}

	// Wait for termination signal
	<-sigCh
	logger.Info(ctx, "Received shutdown signal, gracefully shutting down...")
	cancel()
}

func startPostConsumer(ctx context.Context, config *cfg.Config, logger log.Logger, postModel *model.Post) {
	consumer := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicPost, "post-consumer-group")

	// Channel for collecting messages in batches
	batchSize := 100
	batchTimeout := 5 * time.Second

	// Channel to collect messages for batch processing
	messages := make(chan model.PostMessage, batchSize*2)

	// Batch processor
	go processBatchedPosts(ctx, messages, batchSize, batchTimeout, logger, postModel)

	// Register handler for post messages
	consumer.RegisterHandler("post", func(data []byte) error {
		var postMsg model.PostMessage
		if err := json.Unmarshal(data, &postMsg); err != nil {
			return fmt.Errorf("failed to unmarshal post message: %w", err)
		}

		// Send to batch channel instead of processing individually
		select {
		case messages <- postMsg:
			// Message added to batch
		case <-ctx.Done():
			return ctx.Err()
		}

		return nil
	})

	// Start consumer in a goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error(ctx, "Post consumer error: %v", err)
		}
	}()

	logger.Info(ctx, "Post consumer started successfully")
}

// Gom message thành batch rồi mới ghi xuống database
func processBatchedPosts(ctx context.Context, messages <-chan model.PostMessage, batchSize int,
	batchTimeout time.Duration, logger log.Logger, postModel *model.Post) {

	var batch []model.PostMessage
	timer := time.NewTimer(batchTimeout)

	for {
		select {
		case <-ctx.Done():
			// Process remaining messages before exiting
			if len(batch) > 0 {
				processSingleBatch(ctx, batch, logger, postModel)
			}
			return

		case msg := <-messages:
			batch = append(batch, msg)

			// Process batch when it reaches the desired size
			if len(batch) >= batchSize {
				processSingleBatch(ctx, batch, logger, postModel)
				batch = nil // Reset batch
				timer.Reset(batchTimeout)
			}

		case <-timer.C:
			// Process batch on timeout if there are any messages
			if len(batch) > 0 {
				processSingleBatch(ctx, batch, logger, postModel)
				batch = nil // Reset batch
			}
			timer.Reset(batchTimeout)
		}
	}
}

// Process a single batch of posts
func processSingleBatch(ctx context.Context, batch []model.PostMessage, logger log.Logger, postModel *model.Post) {
	if len(batch) == 0 {
		return
	}

	logger.Info(ctx, "Processing batch of %d posts", len(batch))

	// Use transactions for batch inserts
	attempted, inserted, err := postModel.CreateBatch(batch)
	if err != nil {
		logger.Error(ctx, "Failed to save batch of posts: %v", err)
	} else {
		logger.Info(ctx, "Saved posts: %d attempted, %d new (duplicates ignored)", attempted, inserted)
	}
}

func startCreatorConsumer(ctx context.Context, config *cfg.Config, logger log.Logger, creatorModel *model.Creator) {
	consumer := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicCreator, "creator-consumer-group")

	// Register handler for creator messages
	consumer.RegisterHandler("creator", func(data []byte) error {
		var creatorMsg model.CreatorMessage
		if err := json.Unmarshal(data, &creatorMsg); err != nil {
			return fmt.Errorf("failed to unmarshal creator message: %w", err)
		}

		// Save creator to database
		if _, _, err := creatorModel.CreateBatch([]model.CreatorMessage{creatorMsg}); err != nil {
			return fmt.Errorf("failed to save creator to database: %w", err)
		}

		return nil
	})

	// Start consumer in a goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error(ctx, "Creator consumer error: %v", err)
		}
	}()

	logger.Info(ctx, "Creator consumer started successfully")
}

func startHashtagConsumer(ctx context.Context, config *cfg.Config, logger log.Logger, hashtagModel *model.Hashtag) {
	consumer := kafka.NewConsumer(config, logger, config.Kafka.Producer.TopicHashtag, "hashtag-consumer-group")

	// Register handler for hashtag messages
	consumer.RegisterHandler("hashtag", func(data []byte) error {
		var hashtagMsg model.HashtagMessage
		if err := json.Unmarshal(data, &hashtagMsg); err != nil {
			return fmt.Errorf("failed to unmarshal hashtag message: %w", err)
		}

		// Save hashtag to database
		if _, _, err := hashtagModel.CreateBatch([]model.HashtagMessage{hashtagMsg}); err != nil {
			return fmt.Errorf("failed to save hashtag to database: %w", err)
		}

		return nil
	})

	// Start consumer in a goroutine
	go func() {
		if err := consumer.Start(ctx); err != nil {
			logger.Error(ctx, "Hashtag consumer error: %v", err)
		}
	}()

	logger.Info(ctx, "Hashtag consumer started successfully")
}
