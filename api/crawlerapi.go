// Package api cung cấp các API public để tương tác với TikTok crawler
package api

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/internal/crawler"
	"github.com/tunetouch/tiktok-crawler/internal/model"
	"github.com/tunetouch/tiktok-crawler/internal/report"
	"github.com/tunetouch/tiktok-crawler/pkg/db"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

// CrawlStats chứa thống kê về quá trình crawling
type CrawlStats struct {
	Version         string    `json:"version"`
	IsRunning       bool      `json:"isRunning"`
	StartTime       time.Time `json:"startTime"`
	Duration        string    `json:"duration"`
	PostsCrawled    int       `json:"postsCrawled"`
	CreatorsCrawled int       `json:"creatorsCrawled"`
	HashtagsCrawled int       `json:"hashtagsCrawled"`
	LastError       string    `json:"lastError"`
}

// CrawlerAPI cung cấp các API để tương tác với TikTok Crawler
// và lớp báo cáo read-only cho presentation
type CrawlerAPI struct {
	ctx           context.Context
	config        *cfg.Config
	logger        log.Logger
	sqlite        *db.Sqlite
	reporter      *report.Reporter
	crawlerV1     crawler.Crawler
	crawlerV2     crawler.Crawler
	crawling      bool
	crawlStatsMu  sync.RWMutex
	crawlStats    *CrawlStats
	stopCrawlChan chan struct{}
}

// NewCrawlerAPI tạo một instance mới của CrawlerAPI
func NewCrawlerAPI() *CrawlerAPI {
	return &CrawlerAPI{
		crawlStats:    &CrawlStats{},
		stopCrawlChan: make(chan struct{}),
	}
}

// Initialize khởi tạo các thành phần cần thiết cho crawler
func (a *CrawlerAPI) Initialize(ctx context.Context) error {
	a.ctx = ctx

	var err error

	// Load configuration
	loader, _ := cfg.NewViperLoader()
	a.config, err = loader.Load()
	if err != nil {
		a.logger, _ = log.NewCslLogger()
		a.logger.Error(a.ctx, "Failed to load configuration: %v", err)
		return err
	}

	// Set up logger
	a.logger, err = log.NewCslLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	// Set up database
	a.sqlite, err = db.NewSqlite(a.config)
	if err != nil {
		a.logger.Error(a.ctx, "Failed to open database: %v", err)
		return fmt.Errorf("failed to open database: %w", err)
	}

	// Set up reporter
	a.reporter, err = report.NewReporter(a.config, a.logger, a.sqlite)
	if err != nil {
		return fmt.Errorf("failed to create reporter: %w", err)
	}

	// Initialize crawlers
	if v1, err := crawler.NewCrawlerV1(a.logger, a.config, a.sqlite); err != nil {
		a.logger.Error(a.ctx, "Failed to create crawler V1: %v", err)
		// Không return ở đây, chúng ta vẫn có thể thử khởi tạo V2
	} else {
		a.crawlerV1 = v1
	}

	if v2, err := crawler.NewCrawlerV2(a.logger, a.config, a.sqlite); err != nil {
		a.logger.Error(a.ctx, "Failed to create crawler V2: %v", err)
		// Không return ở đây
	} else {
		a.crawlerV2 = v2
	}

	// Kiểm tra xem có ít nhất một crawler được khởi tạo thành công không
	if a.crawlerV1 == nil && a.crawlerV2 == nil {
		return errors.New("failed to initialize any crawler")
	}

	// Migrate database tables
	return a.migrateDatabase()
}

// migrateDatabase đảm bảo các bảng cần thiết tồn tại, idempotent
func (a *CrawlerAPI) migrateDatabase() error {
	if a.sqlite == nil {
		return errors.New("database connection not initialized")
	}

	postMd, err := model.NewPost(a.config, a.logger, a.sqlite)
	if err != nil {
		return fmt.Errorf("failed to create post model: %w", err)
	}

	creatorMd, err := model.NewCreator(a.config, a.logger, a.sqlite)
	if err != nil {
		return fmt.Errorf("failed to create creator model: %w", err)
	}

	hashtagMd, err := model.NewHashtag(a.config, a.logger, a.sqlite)
	if err != nil {
		return fmt.Errorf("failed to create hashtag model: %w", err)
	}

	return a.sqlite.Migrate(postMd, creatorMd, hashtagMd)
}

// StartCrawling bắt đầu quá trình crawling với phiên bản được chỉ định
func (a *CrawlerAPI) StartCrawling(version string) (string, error) {
	// Check if already crawling
	a.crawlStatsMu.RLock()
	isCrawling := a.crawling
	a.crawlStatsMu.RUnlock()

	if isCrawling {
		return "Crawling is already in progress", nil
	}

	// Kiểm tra crawler được chọn có tồn tại không
	var selectedCrawler crawler.Crawler
	switch version {
	case "v1":
		if a.crawlerV1 == nil {
			return "", errors.New("crawler V1 is not initialized")
		}
		selectedCrawler = a.crawlerV1
	case "v2":
		if a.crawlerV2 == nil {
			return "", errors.New("crawler V2 is not initialized")
		}
		selectedCrawler = a.crawlerV2
	default:
		return "", errors.New("invalid crawler version: " + version)
	}

	// Create new stats
	a.crawlStatsMu.Lock()
	a.crawling = true
	a.crawlStats = &CrawlStats{
		Version:   version,
		IsRunning: true,
		StartTime: time.Now(),
	}
	a.crawlStatsMu.Unlock()

	// Start crawling in a goroutine
	go func(c crawler.Crawler) {
		success := c.Crawl()
		counts := c.Stats()

		a.updateCrawlStats(func(stats *CrawlStats) {
			stats.IsRunning = false
			stats.PostsCrawled = counts.Posts
			stats.CreatorsCrawled = counts.Creators
			stats.HashtagsCrawled = counts.Hashtags
			if !success {
				stats.LastError = "Crawling failed"
			}
		})

		a.crawlStatsMu.Lock()
		a.crawling = false
		a.crawlStatsMu.Unlock()

		// Xả tín hiệu stop còn treo lại nếu có
		select {
		case <-a.stopCrawlChan:
		default:
		}
	}(selectedCrawler)

	return "Started crawling with version " + version, nil
}

// StopCrawling dừng quá trình crawling
func (a *CrawlerAPI) StopCrawling() (string, error) {
	a.crawlStatsMu.RLock()
	isCrawling := a.crawling
	a.crawlStatsMu.RUnlock()

	if !isCrawling {
		return "No crawling is in progress", nil
	}

	// Signal to stop crawling
	select {
	case a.stopCrawlChan <- struct{}{}:
	default:
	}

	return "Stopping crawling process (may take some time to complete)", nil
}

// GetCrawlStats trả về thống kê về quá trình crawling
func (a *CrawlerAPI) GetCrawlStats() (*CrawlStats, error) {
	a.crawlStatsMu.RLock()
	defer a.crawlStatsMu.RUnlock()

	// Nếu crawlStats là nil, khởi tạo một đối tượng trống
	if a.crawlStats == nil {
		return &CrawlStats{}, nil
	}

	// Calculate duration if crawling is running
	stats := *a.crawlStats
	if stats.IsRunning {
		stats.Duration = time.Since(stats.StartTime).String()
	}

	return &stats, nil
}

// updateCrawlStats cập nhật thống kê về quá trình crawling một cách an toàn
func (a *CrawlerAPI) updateCrawlStats(updateFn func(*CrawlStats)) {
	a.crawlStatsMu.Lock()
	defer a.crawlStatsMu.Unlock()

	if a.crawlStats == nil {
		a.crawlStats = &CrawlStats{}
	}

	updateFn(a.crawlStats)
}

// GetDatabaseStatus kiểm tra trạng thái kết nối cơ sở dữ liệu
func (a *CrawlerAPI) GetDatabaseStatus() (string, error) {
	if a.sqlite == nil {
		return "Database not initialized", nil
	}

	if err := a.sqlite.Ping(); err != nil {
		return "Database not connected: " + err.Error(), err
	}

	return "Database connected", nil
}

// Các hàm bên dưới là bề mặt truy vấn read-only cho presentation layer.
// Không có thao tác mutation nào được expose qua đây.

func (a *CrawlerAPI) GetPostDateBounds() (*report.DateRange, error) {
	return a.reporter.PostDateBounds()
}

func (a *CrawlerAPI) GetCreatorDateBounds() (*report.DateRange, error) {
	return a.reporter.CreatorDateBounds()
}

func (a *CrawlerAPI) GetHashtagDateBounds() (*report.DateRange, error) {
	return a.reporter.HashtagDateBounds()
}

func (a *CrawlerAPI) GetPostsReport(date string) (*report.PostsSummary, error) {
	return a.reporter.PostsReport(date)
}

func (a *CrawlerAPI) GetCreatorsReport(date string) (*report.CreatorsSummary, error) {
	return a.reporter.CreatorsReport(date)
}

func (a *CrawlerAPI) GetHashtagsReport(date, industry string) (*report.HashtagsSummary, error) {
	return a.reporter.HashtagsReport(date, industry)
}
