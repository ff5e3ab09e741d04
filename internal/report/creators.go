package report

import (
	"sort"

	"github.com/tunetouch/tiktok-crawler/internal/model"
)

// CreatorRanking là một creator trong bảng xếp hạng theo follower
type CreatorRanking struct {
	UserId        string
	Nickname      string
	ProfileUrl    string
	FollowerCount int64
}

// VideoRanking là một video trong bảng xếp hạng theo lượt xem
type VideoRanking struct {
	VideoItemId string
	VideoUrl    string
	Nickname    string
	PlayCount   int64
	LikeCount   int64
}

// CreatorsSummary là aggregate của bảng creators cho một ngày báo cáo.
// Một creator có thể xuất hiện nhiều dòng trong một snapshot (mỗi video một dòng)
// nên follower tính theo max trên từng creator.
type CreatorsSummary struct {
	Date                string
	UniqueCreators      int
	TotalFollowers      int64
	UniqueVideos        int
	TotalViews          int64
	TotalLikes          int64
	AvgEngagement       float64
	TopCreatorName      string
	TopCreatorFollowers int64
	TopVideoCreator     string
	TopVideoViews       int64

	DeltaUniqueCreators      int
	DeltaTotalFollowers      int64
	DeltaUniqueVideos        int
	DeltaTotalViews          int64
	DeltaTotalLikes          int64
	DeltaAvgEngagement       float64
	DeltaTopCreatorFollowers int64
	DeltaTopVideoViews       int64

	TopCreators []CreatorRanking
	TopVideos   []VideoRanking
}

// CreatorsReport tính aggregate cho một ngày được chọn
func (r *Reporter) CreatorsReport(date string) (*CreatorsSummary, error) {
	gdb, err := r.Sqlite.Db()
	if err != nil {
		return nil, err
	}

	var rows []model.Creator
	if err := gdb.Where("crawl_date = ?", date).Find(&rows).Error; err != nil {
		return nil, err
	}

	prev, err := prevDay(date)
	if err != nil {
		return nil, err
	}
	var prevRows []model.Creator
	if err := gdb.Where("crawl_date = ?", prev).Find(&prevRows).Error; err != nil {
		return nil, err
	}

	summary := &CreatorsSummary{Date: date}
	if len(rows) == 0 {
		return summary, nil
	}

	summary.UniqueCreators = len(maxFollowersByCreator(rows))
	summary.TotalFollowers = sumMaxFollowers(rows)
	summary.UniqueVideos = countUniqueVideos(rows)
	for _, row := range rows {
		summary.TotalViews += row.VideoPlayCount
		summary.TotalLikes += row.VideoLikeCount
	}
	summary.AvgEngagement = creatorEngagementMean(rows)

	topCreators := topCreatorsByFollowers(rows, 20)
	if len(topCreators) > 0 {
		summary.TopCreatorName = topCreators[0].Nickname
		summary.TopCreatorFollowers = topCreators[0].FollowerCount
	}
	summary.TopCreators = topCreators

	topVideos := topCreatorVideos(rows, 20)
	if len(topVideos) > 0 {
		summary.TopVideoCreator = topVideos[0].Nickname
		summary.TopVideoViews = topVideos[0].PlayCount
	}
	summary.TopVideos = topVideos

	// Delta so với ngày liền trước, baseline 0 khi không có dữ liệu
	summary.DeltaUniqueCreators = summary.UniqueCreators - len(maxFollowersByCreator(prevRows))
	summary.DeltaTotalFollowers = summary.TotalFollowers - sumMaxFollowers(prevRows)
	summary.DeltaUniqueVideos = summary.UniqueVideos - countUniqueVideos(prevRows)
	var prevViews, prevLikes int64
	for _, row := range prevRows {
		prevViews += row.VideoPlayCount
		prevLikes += row.VideoLikeCount
	}
	summary.DeltaTotalViews = summary.TotalViews - prevViews
	summary.DeltaTotalLikes = summary.TotalLikes - prevLikes
	summary.DeltaAvgEngagement = summary.AvgEngagement - creatorEngagementMean(prevRows)
	summary.DeltaTopCreatorFollowers = summary.TopCreatorFollowers - maxOfMaxFollowers(prevRows)
	summary.DeltaTopVideoViews = summary.TopVideoViews - maxVideoViews(prevRows)

	return summary, nil
}

func maxFollowersByCreator(rows []model.Creator) map[string]int64 {
	byCreator := make(map[string]int64)
	for _, row := range rows {
		current, ok := byCreator[row.UserId]
		if !ok || row.FollowerCount > current {
			byCreator[row.UserId] = row.FollowerCount
		}
	}
	return byCreator
}

func sumMaxFollowers(rows []model.Creator) int64 {
	var sum int64
	for _, followers := range maxFollowersByCreator(rows) {
		sum += followers
	}
	return sum
}

func maxOfMaxFollowers(rows []model.Creator) int64 {
	var max int64
	for _, followers := range maxFollowersByCreator(rows) {
		if followers > max {
			max = followers
		}
	}
	return max
}

func countUniqueVideos(rows []model.Creator) int {
	videos := make(map[string]struct{})
	for _, row := range rows {
		videos[row.VideoItemId] = struct{}{}
	}
	return len(videos)
}

func maxVideoViews(rows []model.Creator) int64 {
	var max int64
	for _, row := range rows {
		if row.VideoPlayCount > max {
			max = row.VideoPlayCount
		}
	}
	return max
}

// creatorEngagementMean loại dòng có play = 0 khỏi trung bình, như posts
func creatorEngagementMean(rows []model.Creator) float64 {
	var sum float64
	var n int
	for _, row := range rows {
		if row.VideoPlayCount == 0 {
			continue
		}
		sum += float64(row.VideoLikeCount) / float64(row.VideoPlayCount)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func topCreatorsByFollowers(rows []model.Creator, limit int) []CreatorRanking {
	seen := make(map[string]CreatorRanking)
	for _, row := range rows {
		current, ok := seen[row.UserId]
		if !ok || row.FollowerCount > current.FollowerCount {
			seen[row.UserId] = CreatorRanking{
				UserId:        row.UserId,
				Nickname:      row.Nickname,
				ProfileUrl:    row.ProfileUrl,
				FollowerCount: row.FollowerCount,
			}
		}
	}

	ranking := make([]CreatorRanking, 0, len(seen))
	for _, entry := range seen {
		ranking = append(ranking, entry)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].FollowerCount != ranking[j].FollowerCount {
			return ranking[i].FollowerCount > ranking[j].FollowerCount
		}
		return ranking[i].UserId < ranking[j].UserId
	})
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}

func topCreatorVideos(rows []model.Creator, limit int) []VideoRanking {
	seen := make(map[string]VideoRanking)
	for _, row := range rows {
		current, ok := seen[row.VideoItemId]
		if !ok || row.VideoPlayCount > current.PlayCount {
			seen[row.VideoItemId] = VideoRanking{
				VideoItemId: row.VideoItemId,
				VideoUrl:    row.VideoUrl,
				Nickname:    row.Nickname,
				PlayCount:   row.VideoPlayCount,
				LikeCount:   row.VideoLikeCount,
			}
		}
	}

	ranking := make([]VideoRanking, 0, len(seen))
	for _, entry := range seen {
		ranking = append(ranking, entry)
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].PlayCount != ranking[j].PlayCount {
			return ranking[i].PlayCount > ranking[j].PlayCount
		}
		return ranking[i].VideoItemId < ranking[j].VideoItemId
	})
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking
}
