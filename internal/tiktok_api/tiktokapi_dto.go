// Gói dto cung cấp các đối tượng truyền dữ liệu cho dự án
// Chuyển đổi phản hồi api trending của TikTok thành cấu trúc

package tiktokapi

import "encoding/json"

type VideoAuthor struct {
	NickName string `json:"NickName"`
	UniqueId string `json:"UniqueId"`
	UserId   string `json:"UserId"`
}

type TrendingVideo struct {
	ItemId    string      `json:"ItemId"`
	ItemName  string      `json:"ItemName"`
	Author    VideoAuthor `json:"Author"`
	LikeCount int64       `json:"LikeCount"`
	PlayCount int64       `json:"PlayCount"`
}

type ProfileVideo struct {
	ItemId    string `json:"ItemId"`
	ItemName  string `json:"ItemName"`
	PlayCount int64  `json:"PlayCount"`
	LikeCount int64  `json:"LikeCount"`
}

type TrendingCreator struct {
	NickName         string         `json:"NickName"`
	UniqueId         string         `json:"UniqueId"`
	UserId           string         `json:"UserId"`
	FollowerCount    int64          `json:"FollowerCount"`
	BioDescription   string         `json:"BioDescription"`
	ProfileVideoList []ProfileVideo `json:"ProfileVideoList"`
}

// Mapping response
type VideosResponse struct {
	TrendingVideos []TrendingVideo `json:"TrendingVideos"`
}

type CreatorsResponse struct {
	TrendingCreators []TrendingCreator `json:"TrendingCreators"`
}

// Creative radar trả key dạng snake_case và lồng country/industry
// thành object có trường "value"
type TaggedValue struct {
	Value string `json:"value"`
}

type HashtagInfo struct {
	HashtagId    json.Number `json:"hashtag_id"`
	HashtagName  string      `json:"hashtag_name"`
	Rank         int         `json:"rank"`
	VideoViews   int64       `json:"video_views"`
	PublishCnt   int64       `json:"publish_cnt"`
	CountryInfo  TaggedValue `json:"country_info"`
	IndustryInfo TaggedValue `json:"industry_info"`
}

type HashtagsResponse struct {
	Data struct {
		List []HashtagInfo `json:"list"`
	} `json:"data"`
}
