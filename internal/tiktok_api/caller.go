// Gói tiktokapi cung cấp một caller cho các API trending của TikTok.
// Ba endpoint: trending videos, trending creators (Creator Studio)
// và trending hashtags (Creative Radar).
// Caller chịu trách nhiệm thực hiện yêu cầu API và chuẩn hóa phản hồi
// thành các record phẳng; lỗi transport được trả về dưới dạng FetchError
// chứ không bao giờ làm sập orchestrator.

package tiktokapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/internal/model"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

const (
	EndpointVideos   = "trending_videos"
	EndpointCreators = "trending_creators"
	EndpointHashtags = "trending_hashtags"
)

// FetchError là lỗi có ngữ cảnh (endpoint, vertical, page) cho một lần gọi hỏng
type FetchError struct {
	Endpoint   string
	Vertical   string
	Page       int
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s [%s] page %d: %v", e.Endpoint, e.Vertical, e.Page, e.Err)
	}
	return fmt.Sprintf("%s [%s] page %d: unexpected status %d", e.Endpoint, e.Vertical, e.Page, e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Caller struct {
	Logger     log.Logger
	Config     *cfg.Config
	Credential *Credential

	// Có thể ghi đè trong test để trỏ về httptest server
	VideosUrl   string
	CreatorsUrl string
	HashtagsUrl string

	client *http.Client
}

func NewCaller(logger log.Logger, config *cfg.Config, credential *Credential) *Caller {
	return &Caller{
		Logger:      logger,
		Config:      config,
		Credential:  credential,
		VideosUrl:   config.TiktokApi.TrendingVideosUrl,
		CreatorsUrl: config.TiktokApi.TrendingCreatorsUrl,
		HashtagsUrl: config.TiktokApi.TrendingHashtagsUrl,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// studioParams dựng bộ query param chung cho hai endpoint Creator Studio
func (c *Caller) studioParams(key, vertical string, page int) url.Values {
	region := c.Config.TiktokApi.Region
	params := url.Values{}
	params.Set("locale", "en")
	params.Set("aid", "1988")
	params.Set("priority_region", region)
	params.Set("region", region)
	params.Set("app_name", "tiktok_creator_center")
	params.Set("app_language", "en")
	params.Set("device_platform", "web_pc")
	params.Set("channel", "tiktok_web")
	params.Set("device_id", c.Credential.DeviceId)
	params.Set("os", "win")
	params.Set("browser_language", "en-US")
	params.Set("browser_platform", "Win32")
	params.Set("browser_name", "Mozilla")
	params.Set("key", key)
	params.Set("PageNum", strconv.Itoa(page))
	params.Set("PageSize", strconv.Itoa(c.Config.TiktokApi.PageSize))
	params.Set("Region", "All")
	params.Set("Vertical", vertical)
	params.Set("op_region", region)
	params.Set("TrendingType", "0")
	return params
}

// doGet thực hiện một GET đồng bộ, trả body đã decode vào out.
// Mọi lỗi transport / non-200 / body hỏng đều trả về *FetchError.
func (c *Caller) doGet(ctx context.Context, endpoint, vertical string, page int, rawUrl string, params url.Values, out interface{}) error {
	fullUrl := rawUrl + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullUrl, nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Vertical: vertical, Page: page, Err: err}
	}
	c.Credential.Apply(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Vertical: vertical, Page: page, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Endpoint: endpoint, Vertical: vertical, Page: page, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Endpoint: endpoint, Vertical: vertical, Page: page, Err: err}
	}

	return nil
}

// FetchTrendingVideos gọi API trending videos cho một (vertical, page).
// Page đánh số từ 0. Thiếu trường TrendingVideos được coi là trang rỗng.
func (c *Caller) FetchTrendingVideos(ctx context.Context, vertical string, page int) ([]model.PostMessage, error) {
	params := c.studioParams("trendingListAllEntertainment", vertical, page)

	rawResponse := &VideosResponse{}
	if err := c.doGet(ctx, EndpointVideos, vertical, page, c.VideosUrl, params, rawResponse); err != nil {
		return nil, err
	}

	c.Logger.Info(ctx, "Trending Videos [%s] Page %d success, items received: %d", vertical, page+1, len(rawResponse.TrendingVideos))

	posts := make([]model.PostMessage, 0, len(rawResponse.TrendingVideos))
	for _, video := range rawResponse.TrendingVideos {
		if video.ItemId == "" {
			c.Logger.Warn(ctx, "Skipping trending video without ItemId in [%s] page %d", vertical, page)
			continue
		}
		posts = append(posts, model.PostMessage{
			Url:       videoUrl(video.Author.UniqueId, video.ItemId),
			Nickname:  video.Author.NickName,
			UserId:    video.Author.UserId,
			ItemId:    video.ItemId,
			ItemName:  video.ItemName,
			Genre:     vertical,
			LikeCount: video.LikeCount,
			PlayCount: video.PlayCount,
		})
	}

	return posts, nil
}

// FetchTrendingCreators gọi API trending creators cho một (vertical, page)
// và trải mỗi creator thành một record trên mỗi video trong profile.
// creator_rank là thứ hạng toàn cục qua các trang: page*pageSize + (vị trí + 1).
// video_rank xếp theo (play + like) giảm dần, tie giữ nguyên thứ tự gốc.
func (c *Caller) FetchTrendingCreators(ctx context.Context, vertical string, page int) ([]model.CreatorMessage, error) {
	params := c.studioParams("trendingCreators", vertical, page)

	rawResponse := &CreatorsResponse{}
	if err := c.doGet(ctx, EndpointCreators, vertical, page, c.CreatorsUrl, params, rawResponse); err != nil {
		return nil, err
	}

	c.Logger.Info(ctx, "Trending Creators [%s] Page %d success, items received: %d", vertical, page+1, len(rawResponse.TrendingCreators))

	pageSize := c.Config.TiktokApi.PageSize
	creators := make([]model.CreatorMessage, 0, len(rawResponse.TrendingCreators))
	for idx, creator := range rawResponse.TrendingCreators {
		if creator.UserId == "" {
			c.Logger.Warn(ctx, "Skipping trending creator without UserId in [%s] page %d", vertical, page)
			continue
		}
		creatorRank := page*pageSize + (idx + 1)

		videos := make([]ProfileVideo, len(creator.ProfileVideoList))
		copy(videos, creator.ProfileVideoList)
		sort.SliceStable(videos, func(i, j int) bool {
			return videos[i].PlayCount+videos[i].LikeCount > videos[j].PlayCount+videos[j].LikeCount
		})

		for videoIdx, video := range videos {
			creators = append(creators, model.CreatorMessage{
				Nickname:       creator.NickName,
				UniqueId:       creator.UniqueId,
				UserId:         creator.UserId,
				FollowerCount:  creator.FollowerCount,
				Bio:            creator.BioDescription,
				CreatorRank:    creatorRank,
				VideoType:      vertical,
				VideoItemId:    video.ItemId,
				VideoName:      video.ItemName,
				VideoUrl:       videoUrl(creator.UniqueId, video.ItemId),
				ProfileUrl:     fmt.Sprintf("https://www.tiktok.com/@%s", creator.UniqueId),
				VideoPlayCount: video.PlayCount,
				VideoLikeCount: video.LikeCount,
				VideoRank:      videoIdx + 1,
			})
		}
	}

	return creators, nil
}

// FetchTrendingHashtags gọi API hashtag của Creative Radar cho một trang.
// Các object lồng country_info/industry_info được trải phẳng về trường value.
func (c *Caller) FetchTrendingHashtags(ctx context.Context, page, limit, period int, country string) ([]model.HashtagMessage, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("period", strconv.Itoa(period))
	params.Set("country_code", country)
	params.Set("sort_by", "popular")

	rawResponse := &HashtagsResponse{}
	if err := c.doGet(ctx, EndpointHashtags, "", page, c.HashtagsUrl, params, rawResponse); err != nil {
		return nil, err
	}

	c.Logger.Info(ctx, "Trending Hashtags Page %d success, items received: %d", page, len(rawResponse.Data.List))

	hashtags := make([]model.HashtagMessage, 0, len(rawResponse.Data.List))
	for _, item := range rawResponse.Data.List {
		if item.HashtagId.String() == "" {
			c.Logger.Warn(ctx, "Skipping trending hashtag without id on page %d", page)
			continue
		}
		hashtags = append(hashtags, model.HashtagMessage{
			HashtagId:     item.HashtagId.String(),
			HashtagName:   item.HashtagName,
			Country:       item.CountryInfo.Value,
			Rank:          item.Rank,
			VideoViews:    item.VideoViews,
			PublishCount:  item.PublishCnt,
			IndustryValue: item.IndustryInfo.Value,
		})
	}

	return hashtags, nil
}

// videoUrl dựng URL video từ handle của tác giả. Payload cũ không phải lúc nào
// cũng có UniqueId, khi đó giữ lại segment placeholder như dữ liệu lịch sử.
func videoUrl(uniqueId, itemId string) string {
	if uniqueId == "" {
		return fmt.Sprintf("https://tiktok.com/@username/video/%s", itemId)
	}
	return fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", uniqueId, itemId)
}
