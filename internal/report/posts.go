package report

import (
	"sort"

	"github.com/tunetouch/tiktok-crawler/internal/model"
)

// GenreStat là thống kê trung bình theo genre của một ngày báo cáo
type GenreStat struct {
	Genre         string
	AvgPlayCount  float64
	AvgLikeCount  float64
	AvgEngagement float64
}

// PostsSummary là toàn bộ aggregate của bảng posts cho một ngày báo cáo,
// kèm delta so với ngày lịch liền trước (baseline 0 nếu ngày đó không có dữ liệu)
type PostsSummary struct {
	Date            string
	TotalPlays      int64
	TotalLikes      int64
	TotalVideos     int
	AvgEngagement   float64
	TopCreator      string
	TopCreatorPlays int64
	TopGenre        string
	TopGenrePlays   int64

	DeltaTotalPlays      int64
	DeltaTotalLikes      int64
	DeltaTotalVideos     int
	DeltaAvgEngagement   float64
	DeltaTopCreatorPlays int64
	DeltaTopGenrePlays   int64

	GenreAverages []GenreStat
	TopVideos     []model.Post
}

// PostsReport tính aggregate cho một ngày được chọn
func (r *Reporter) PostsReport(date string) (*PostsSummary, error) {
	gdb, err := r.Sqlite.Db()
	if err != nil {
		return nil, err
	}

	var rows []model.Post
	if err := gdb.Where("crawl_date = ?", date).Find(&rows).Error; err != nil {
		return nil, err
	}

	prev, err := prevDay(date)
	if err != nil {
		return nil, err
	}
	var prevRows []model.Post
	if err := gdb.Where("crawl_date = ?", prev).Find(&prevRows).Error; err != nil {
		return nil, err
	}

	summary := &PostsSummary{Date: date}
	if len(rows) == 0 {
		return summary, nil
	}

	for _, row := range rows {
		summary.TotalPlays += row.PlayCount
		summary.TotalLikes += row.LikeCount
	}
	summary.TotalVideos = len(rows)
	summary.AvgEngagement = postEngagementMean(rows)

	summary.TopCreator, summary.TopCreatorPlays = topPostGroup(rows, func(p model.Post) string { return p.Nickname })
	summary.TopGenre, summary.TopGenrePlays = topPostGroup(rows, func(p model.Post) string { return p.Genre })

	// Delta: baseline bằng 0 khi không có dữ liệu ngày trước.
	// Delta của top creator/genre so với chính creator/genre đó ở ngày trước.
	var prevTotalPlays, prevTotalLikes int64
	for _, row := range prevRows {
		prevTotalPlays += row.PlayCount
		prevTotalLikes += row.LikeCount
	}
	summary.DeltaTotalPlays = summary.TotalPlays - prevTotalPlays
	summary.DeltaTotalLikes = summary.TotalLikes - prevTotalLikes
	summary.DeltaTotalVideos = summary.TotalVideos - len(prevRows)
	summary.DeltaAvgEngagement = summary.AvgEngagement - postEngagementMean(prevRows)
	summary.DeltaTopCreatorPlays = summary.TopCreatorPlays - sumPostPlaysFor(prevRows, func(p model.Post) string { return p.Nickname }, summary.TopCreator)
	summary.DeltaTopGenrePlays = summary.TopGenrePlays - sumPostPlaysFor(prevRows, func(p model.Post) string { return p.Genre }, summary.TopGenre)

	summary.GenreAverages = genreAverages(rows)
	summary.TopVideos = topPostsByPlayCount(rows, 20)

	return summary, nil
}

// postEngagementMean là trung bình của tỉ lệ like/play từng dòng.
// Dòng có play_count = 0 cho tỉ lệ không xác định và bị loại khỏi trung bình,
// không được tính như 0.
func postEngagementMean(rows []model.Post) float64 {
	var sum float64
	var n int
	for _, row := range rows {
		if row.PlayCount == 0 {
			continue
		}
		sum += float64(row.LikeCount) / float64(row.PlayCount)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// topPostGroup nhóm theo keyFn, cộng play_count và trả nhóm lớn nhất.
// Tie-break theo tên để kết quả ổn định.
func topPostGroup(rows []model.Post, keyFn func(model.Post) string) (string, int64) {
	sums := make(map[string]int64)
	for _, row := range rows {
		sums[keyFn(row)] += row.PlayCount
	}

	var topName string
	var topPlays int64
	first := true
	for name, plays := range sums {
		if first || plays > topPlays || (plays == topPlays && name < topName) {
			topName = name
			topPlays = plays
			first = false
		}
	}
	return topName, topPlays
}

func sumPostPlaysFor(rows []model.Post, keyFn func(model.Post) string, key string) int64 {
	var sum int64
	for _, row := range rows {
		if keyFn(row) == key {
			sum += row.PlayCount
		}
	}
	return sum
}

func genreAverages(rows []model.Post) []GenreStat {
	type acc struct {
		plays, likes   int64
		count          int
		engagementSum  float64
		engagementRows int
	}
	byGenre := make(map[string]*acc)
	for _, row := range rows {
		a, ok := byGenre[row.Genre]
		if !ok {
			a = &acc{}
			byGenre[row.Genre] = a
		}
		a.plays += row.PlayCount
		a.likes += row.LikeCount
		a.count++
		if row.PlayCount > 0 {
			a.engagementSum += float64(row.LikeCount) / float64(row.PlayCount)
			a.engagementRows++
		}
	}

	stats := make([]GenreStat, 0, len(byGenre))
	for genre, a := range byGenre {
		stat := GenreStat{
			Genre:        genre,
			AvgPlayCount: float64(a.plays) / float64(a.count),
			AvgLikeCount: float64(a.likes) / float64(a.count),
		}
		if a.engagementRows > 0 {
			stat.AvgEngagement = a.engagementSum / float64(a.engagementRows)
		}
		stats = append(stats, stat)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Genre < stats[j].Genre })
	return stats
}

func topPostsByPlayCount(rows []model.Post, limit int) []model.Post {
	sorted := make([]model.Post, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PlayCount > sorted[j].PlayCount })
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
