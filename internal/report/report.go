// Gói report cung cấp các read view trên lịch sử đã crawl.
// Mọi truy vấn đều read-only và bind tham số qua placeholder,
// không bao giờ nối chuỗi SQL từ input.

package report

import (
	"database/sql"
	"time"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/internal/model"
	"github.com/tunetouch/tiktok-crawler/pkg/db"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

const dateLayout = "2006-01-02"

type Reporter struct {
	Config *cfg.Config
	Logger log.Logger
	Sqlite *db.Sqlite
}

func NewReporter(config *cfg.Config, logger log.Logger, sqlite *db.Sqlite) (*Reporter, error) {
	return &Reporter{
		Config: config,
		Logger: logger,
		Sqlite: sqlite,
	}, nil
}

// DateRange là khoảng crawl_date có dữ liệu của một bảng.
// Min/Max rỗng nghĩa là bảng chưa có dòng nào.
type DateRange struct {
	Min string
	Max string
}

func (r *Reporter) PostDateBounds() (*DateRange, error) {
	return r.dateBounds(&model.Post{})
}

func (r *Reporter) CreatorDateBounds() (*DateRange, error) {
	return r.dateBounds(&model.Creator{})
}

func (r *Reporter) HashtagDateBounds() (*DateRange, error) {
	return r.dateBounds(&model.Hashtag{})
}

func (r *Reporter) dateBounds(md interface{}) (*DateRange, error) {
	gdb, err := r.Sqlite.Db()
	if err != nil {
		return nil, err
	}

	var minDate, maxDate sql.NullString
	row := gdb.Model(md).Select("MIN(crawl_date), MAX(crawl_date)").Row()
	if err := row.Scan(&minDate, &maxDate); err != nil {
		return nil, err
	}

	return &DateRange{Min: minDate.String, Max: maxDate.String}, nil
}

// prevDay trừ đúng một ngày lịch, không phải "ngày crawl gần nhất trước đó"
func prevDay(date string) (string, error) {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, 0, -1).Format(dateLayout), nil
}
