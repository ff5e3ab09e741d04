package report

import (
	"sort"

	"github.com/tunetouch/tiktok-crawler/internal/model"
)

// HashtagRanking là một hashtag trong bảng xếp hạng, số liệu đã cộng dồn
// trên nhóm (hashtag_name, industry_value)
type HashtagRanking struct {
	HashtagName   string
	IndustryValue string
	VideoViews    int64
	PublishCount  int64
}

// HashtagsSummary là aggregate của bảng hashtags cho một ngày báo cáo.
// Các total tính trên toàn bộ snapshot; industry filter chỉ áp cho hai
// bảng xếp hạng. Bảng này không có delta theo ngày.
type HashtagsSummary struct {
	Date           string
	Industry       string
	TotalViews     int64
	UniqueHashtags int
	TotalPosts     int64
	TopByViews     []HashtagRanking
	TopByPosts     []HashtagRanking
}

// HashtagsReport tính aggregate cho một ngày được chọn.
// industry rỗng hoặc "All" nghĩa là không filter.
func (r *Reporter) HashtagsReport(date, industry string) (*HashtagsSummary, error) {
	gdb, err := r.Sqlite.Db()
	if err != nil {
		return nil, err
	}

	var rows []model.Hashtag
	if err := gdb.Where("crawl_date = ?", date).Find(&rows).Error; err != nil {
		return nil, err
	}

	summary := &HashtagsSummary{Date: date, Industry: industry}
	if len(rows) == 0 {
		return summary, nil
	}

	names := make(map[string]struct{})
	for _, row := range rows {
		if row.HashtagName == "" {
			continue
		}
		summary.TotalViews += row.VideoViews
		summary.TotalPosts += row.PublishCount
		names[row.HashtagName] = struct{}{}
	}
	summary.UniqueHashtags = len(names)

	filtered := rows
	if industry != "" && industry != "All" {
		filtered = make([]model.Hashtag, 0, len(rows))
		for _, row := range rows {
			if row.IndustryValue == industry {
				filtered = append(filtered, row)
			}
		}
	}

	summary.TopByViews = topHashtags(filtered, 20, func(h HashtagRanking) int64 { return h.VideoViews })
	summary.TopByPosts = topHashtags(filtered, 20, func(h HashtagRanking) int64 { return h.PublishCount })

	return summary, nil
}

func topHashtags(rows []model.Hashtag, limit int, metric func(HashtagRanking) int64) []HashtagRanking {
	type key struct {
		name     string
		industry string
	}
	groups := make(map[key]*HashtagRanking)
	for _, row := range rows {
		if row.HashtagName == "" {
			continue
		}
		k := key{name: row.HashtagName, industry: row.IndustryValue}
		entry, ok := groups[k]
		if !ok {
			entry = &HashtagRanking{HashtagName: row.HashtagName, IndustryValue: row.IndustryValue}
			groups[k] = entry
		}
		entry.VideoViews += row.VideoViews
		entry.PublishCount += row.PublishCount
	}

	ranking := make([]HashtagRanking, 0, len(groups))
	for _, entry := range groups {
		ranking = append(ranking, *entry)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if metric(ranking[i]) != metric(ranking[j]) {
			return metric(ranking[i]) > metric(ranking[j])
		}
		return ranking[i].HashtagName < ranking[j].HashtagName
	})
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}
