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

// Post là một dòng lịch sử của video trending.
// Khóa chính (item_id, crawl_date, crawl_time) nên mỗi lần crawl
// sẽ tạo một dòng mới cho cùng một video, phục vụ phân tích theo ngày.
type Post struct {
	Model
	Url       string `json:"url" gorm:"column:url;type:text"`
	Nickname  string `json:"nickname" gorm:"column:nickname;type:text"`
	UserId    string `json:"user_id" gorm:"column:user_id;type:text"`
	ItemId    string `json:"item_id" gorm:"column:item_id;primaryKey"`
	ItemName  string `json:"item_name" gorm:"column:item_name;type:text"`
	Genre     string `json:"genre" gorm:"column:genre;type:text"`
	LikeCount int64  `json:"like_count" gorm:"column:like_count;default:0"`
	PlayCount int64  `json:"play_count" gorm:"column:play_count;default:0"`
	CrawlDate string `json:"crawl_date" gorm:"column:crawl_date;primaryKey"`
	CrawlTime string `json:"crawl_time" gorm:"column:crawl_time;primaryKey"`
}

func NewPost(config *cfg.Config, logger log.Logger, sqlite *db.Sqlite) (*Post, error) {
	post := &Post{
		Model: Model{
			Config: config,
			Logger: logger,
			Sqlite: sqlite,
		},
	}
	return post, nil
}

func (p *Post) TableName() string {
	return "posts"
}

// CreateBatch ghi một batch record với ngữ nghĩa insert-or-ignore:
// dòng trùng khóa bị bỏ qua, không lỗi, không ghi đè.
// Trả về số record đã thử ghi và số dòng thực sự mới.
func (p *Post) CreateBatch(msgs []PostMessage) (int, int, error) {
	ctx := context.Background()

	gdb, err := p.Sqlite.Db()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get database connection: %w", err)
	}

	posts := make([]Post, 0, len(msgs))
	for _, msg := range msgs {
		if msg.ItemId == "" || msg.CrawlDate == "" || msg.CrawlTime == "" {
			p.Logger.Warn(ctx, "Skipping malformed post record: %+v", msg)
			continue
		}
		posts = append(posts, Post{
			Url:       msg.Url,
			Nickname:  TruncateString(msg.Nickname, 250),
			UserId:    msg.UserId,
			ItemId:    msg.ItemId,
			ItemName:  msg.ItemName,
			Genre:     msg.Genre,
			LikeCount: msg.LikeCount,
			PlayCount: msg.PlayCount,
			CrawlDate: msg.CrawlDate,
			CrawlTime: msg.CrawlTime,
		})
	}

	if len(posts) == 0 {
		return 0, 0, nil
	}

	var inserted int64
	err = gdb.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(posts, 100)
		if result.Error != nil {
			return fmt.Errorf("failed to batch create posts: %w", result.Error)
		}
		inserted = result.RowsAffected
		return nil
	})
	if err != nil {
		return len(posts), 0, err
	}

	return len(posts), int(inserted), nil
}
