package model

// PostMessage là cấu trúc dữ liệu một video trending gửi tới Kafka
// và cũng là record phẳng mà fetch client trả về
type PostMessage struct {
	Url       string `json:"url"`
	Nickname  string `json:"nickname"`
	UserId    string `json:"user_id"`
	ItemId    string `json:"item_id"`
	ItemName  string `json:"item_name"`
	Genre     string `json:"genre"`
	LikeCount int64  `json:"like_count"`
	PlayCount int64  `json:"play_count"`
	CrawlDate string `json:"crawl_date"`
	CrawlTime string `json:"crawl_time"`
}

// CreatorMessage là một cặp (creator, video) quan sát được trong một lần pull
type CreatorMessage struct {
	Nickname       string `json:"nickname"`
	UniqueId       string `json:"uniqueId"`
	UserId         string `json:"user_id"`
	FollowerCount  int64  `json:"follower_count"`
	Bio            string `json:"bio"`
	CreatorRank    int    `json:"creator_rank"`
	VideoType      string `json:"video_type"`
	VideoItemId    string `json:"video_item_id"`
	VideoName      string `json:"video_name"`
	VideoUrl       string `json:"video_url"`
	ProfileUrl     string `json:"profile_url"`
	VideoPlayCount int64  `json:"video_play_count"`
	VideoLikeCount int64  `json:"video_like_count"`
	VideoRank      int    `json:"video_rank"`
	CrawlDate      string `json:"crawl_date"`
	CrawlTime      string `json:"crawl_time"`
}

// HashtagMessage là một hashtag trending quan sát được trong một lần pull
type HashtagMessage struct {
	HashtagId     string `json:"hashtag_id"`
	HashtagName   string `json:"hashtag_name"`
	Country       string `json:"country"`
	Rank          int    `json:"rank"`
	VideoViews    int64  `json:"video_views"`
	PublishCount  int64  `json:"publish_count"`
	IndustryValue string `json:"industry_value"`
	CrawlDate     string `json:"crawl_date"`
	CrawlTime     string `json:"crawl_time"`
}
