package model

import (
	"context"
	"fmt"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/pkg/db"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Hashtag giữ lịch sử hashtag trending, khóa (hashtag_id, crawl_date, crawl_time)
type Hashtag struct {
	Model
	HashtagId     string `json:"hashtag_id" gorm:"column:hashtag_id;primaryKey"`
	HashtagName   string `json:"hashtag_name" gorm:"column:hashtag_name;type:text"`
	Country       string `json:"country" gorm:"column:country;type:text"`
	Rank          int    `json:"rank" gorm:"column:rank;default:0"`
	VideoViews    int64  `json:"video_views" gorm:"column:video_views;default:0"`
	PublishCount  int64  `json:"publish_count" gorm:"column:publish_count;default:0"`
	IndustryValue string `json:"industry_value" gorm:"column:industry_value;type:text"`
	CrawlDate     string `json:"crawl_date" gorm:"column:crawl_date;primaryKey"`
	CrawlTime     string `json:"crawl_time" gorm:"column:crawl_time;primaryKey"`
}

func NewHashtag(config *cfg.Config, logger log.Logger, sqlite *db.Sqlite) (*Hashtag, error) {
	hashtag := &Hashtag{
		Model: Model{
			Config: config,
			Logger: logger,
			Sqlite: sqlite,
		},
	}
	return hashtag, nil
}

func (h *Hashtag) TableName() string {
	return "hashtags"
}

// CreateBatch ghi batch với insert-or-ignore trên (hashtag_id, crawl_date, crawl_time)
func (h *Hashtag) CreateBatch(msgs []HashtagMessage) (int, int, error) {
	ctx := context.Background()

	gdb, err := h.Sqlite.Db()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get database connection: %w", err)
	}

	hashtags := make([]Hashtag, 0, len(msgs))
	for _, msg := range msgs {
		if msg.HashtagId == "" || msg.CrawlDate == "" || msg.CrawlTime == "" {
			h.Logger.Warn(ctx, "Skipping malformed hashtag record: %+v", msg)
			continue
		}
		hashtags = append(hashtags, Hashtag{
			HashtagId:     msg.HashtagId,
			HashtagName:   msg.HashtagName,
			Country:       msg.Country,
			Rank:          msg.Rank,
			VideoViews:    msg.VideoViews,
			PublishCount:  msg.PublishCount,
			IndustryValue: msg.IndustryValue,
			CrawlDate:     msg.CrawlDate,
			CrawlTime:     msg.CrawlTime,
		})
	}

	if len(hashtags) == 0 {
		return 0, 0, nil
	}

	var inserted int64
	err = gdb.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(hashtags, 100)
		if result.Error != nil {
			return fmt.Errorf("failed to batch create hashtags: %w", result.Error)
		}
		inserted = result.RowsAffected
		return nil
	})
	if err != nil {
		return len(hashtags), 0, err
	}

	return len(hashtags), int(inserted), nil
}
