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

// Creator là một cặp (creator, video) từ pull trending creators.
// Khóa chính (user_id, video_item_id): crawl lại cùng một cặp là no-op,
// bảng này chỉ giữ quan sát đầu tiên chứ không giữ lịch sử theo crawl.
type Creator struct {
	Model
	Nickname       string `json:"nickname" gorm:"column:nickname;type:text"`
	UniqueId       string `json:"uniqueId" gorm:"column:uniqueId;type:text"`
	UserId         string `json:"user_id" gorm:"column:user_id;primaryKey"`
	FollowerCount  int64  `json:"follower_count" gorm:"column:follower_count;default:0"`
	Bio            string `json:"bio" gorm:"column:bio;type:text"`
	CreatorRank    int    `json:"creator_rank" gorm:"column:creator_rank;default:0"`
	VideoType      string `json:"video_type" gorm:"column:video_type;type:text"`
	VideoItemId    string `json:"video_item_id" gorm:"column:video_item_id;primaryKey"`
	VideoName      string `json:"video_name" gorm:"column:video_name;type:text"`
	VideoUrl       string `json:"video_url" gorm:"column:video_url;type:text"`
	ProfileUrl     string `json:"profile_url" gorm:"column:profile_url;type:text"`
	VideoPlayCount int64  `json:"video_play_count" gorm:"column:video_play_count;default:0"`
	VideoLikeCount int64  `json:"video_like_count" gorm:"column:video_like_count;default:0"`
	VideoRank      int    `json:"video_rank" gorm:"column:video_rank;default:0"`
	CrawlDate      string `json:"crawl_date" gorm:"column:crawl_date"`
	CrawlTime      string `json:"crawl_time" gorm:"column:crawl_time"`
}

func NewCreator(config *cfg.Config, logger log.Logger, sqlite *db.Sqlite) (*Creator, error) {
	creator := &Creator{
		Model: Model{
			Config: config,
			Logger: logger,
			Sqlite: sqlite,
		},
	}
	return creator, nil
}

func (c *Creator) TableName() string {
	return "creators"
}

// CreateBatch ghi batch với insert-or-ignore trên (user_id, video_item_id)
func (c *Creator) CreateBatch(msgs []CreatorMessage) (int, int, error) {
	ctx := context.Background()

	gdb, err := c.Sqlite.Db()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get database connection: %w", err)
	}

	creators := make([]Creator, 0, len(msgs))
	for _, msg := range msgs {
		if msg.UserId == "" || msg.VideoItemId == "" {
			c.Logger.Warn(ctx, "Skipping malformed creator record: %+v", msg)
			continue
		}
		creators = append(creators, Creator{
			Nickname:       TruncateString(msg.Nickname, 250),
			UniqueId:       msg.UniqueId,
			UserId:         msg.UserId,
			FollowerCount:  msg.FollowerCount,
			Bio:            msg.Bio,
			CreatorRank:    msg.CreatorRank,
			VideoType:      msg.VideoType,
			VideoItemId:    msg.VideoItemId,
			VideoName:      msg.VideoName,
			VideoUrl:       msg.VideoUrl,
			ProfileUrl:     msg.ProfileUrl,
			VideoPlayCount: msg.VideoPlayCount,
			VideoLikeCount: msg.VideoLikeCount,
			VideoRank:      msg.VideoRank,
			CrawlDate:      msg.CrawlDate,
			CrawlTime:      msg.CrawlTime,
		})
	}

	if len(creators) == 0 {
		return 0, 0, nil
	}

	var inserted int64
	err = gdb.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(creators, 100)
		if result.Error != nil {
			return fmt.Errorf("failed to batch create creators: %w", result.Error)
		}
		inserted = result.RowsAffected
		return nil
	})
	if err != nil {
		return len(creators), 0, err
	}

	return len(creators), int(inserted), nil
}
