package main

import (
	"context"
	"flag"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/internal/crawler"
	"github.com/tunetouch/tiktok-crawler/internal/model"
	"github.com/tunetouch/tiktok-crawler/pkg/db"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

type Handler struct {
	Crawler crawler.Crawler
	Logger  log.Logger
}

func NewHandler(crawler crawler.Crawler, logger log.Logger) *Handler {
	return &Handler{
		Crawler: crawler,
		Logger:  logger,
	}
}

func main() {
	version := flag.String("version", "v1", "Crawler version to run (v1, v2)")
	flag.Parse()

	ctx := context.Background()
	// loader, _ := cfg.NewMockLoader()
	loader, _ := cfg.NewViperLoader()
	config, _ := loader.Load()
	sqlite, _ := db.NewSqlite(config)
	logger, _ := log.NewCslLogger()
	postMd, _ := model.NewPost(config, logger, sqlite)
	creatorMd, _ := model.NewCreator(config, logger, sqlite)
	hashtagMd, _ := model.NewHashtag(config, logger, sqlite)
	crawler, err := crawler.FactoryCrawler(*version, logger, config, sqlite)
	if err != nil {
		logger.Error(ctx, "Không thể khởi tạo crawler: %v", err)
		return
	}

	// Migrate database, lỗi schema là fatal: không crawl khi chưa chắc có bảng
	if err := sqlite.Migrate(postMd, creatorMd, hashtagMd); err != nil {
		logger.Error(ctx, "Không thể migrate database: %v", err)
		return
	}

	//
	logger.Info(ctx, "Starting TikTok trending crawler")
	handler := NewHandler(crawler, logger)
	if handler.Crawler.Crawl() {
		logger.Info(ctx, "Successfully!")
	} else {
		logger.Error(ctx, "Failed!")
	}
}
