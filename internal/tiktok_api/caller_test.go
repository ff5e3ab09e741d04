package tiktokapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// videosJSON returns a trending videos response body with count items.
func videosJSON(count int) string {
	items := make([]string, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, fmt.Sprintf(`{
			"ItemId": "vid%d",
			"ItemName": "video %d",
			"Author": {"NickName": "User %d", "UniqueId": "user%d", "UserId": "%d"},
			"LikeCount": %d,
			"PlayCount": %d
		}`, i, i, i, i, 100+i, (i+1)*10, (i+1)*1000))
	}
	return fmt.Sprintf(`{"TrendingVideos": [%s]}`, strings.Join(items, ","))
}

// creatorsJSON returns a trending creators response body. Each creator carries
// the given profile videos as raw JSON fragments.
func creatorsJSON(creators ...string) string {
	return fmt.Sprintf(`{"TrendingCreators": [%s]}`, strings.Join(creators, ","))
}

func creatorJSON(userId, uniqueId string, followers int, videos ...string) string {
	return fmt.Sprintf(`{
		"NickName": "Creator %s",
		"UniqueId": %q,
		"UserId": %q,
		"FollowerCount": %d,
		"BioDescription": "bio %s",
		"ProfileVideoList": [%s]
	}`, userId, uniqueId, userId, followers, userId, strings.Join(videos, ","))
}

func profileVideoJSON(itemId string, plays, likes int) string {
	return fmt.Sprintf(`{"ItemId": %q, "ItemName": "clip %s", "PlayCount": %d, "LikeCount": %d}`,
		itemId, itemId, plays, likes)
}

// hashtagsJSON returns a creative radar hashtag list response body.
func hashtagsJSON(items ...string) string {
	return fmt.Sprintf(`{"data": {"list": [%s]}}`, strings.Join(items, ","))
}

func hashtagJSON(id int64, name, country, industry string, views, posts int64) string {
	return fmt.Sprintf(`{
		"hashtag_id": %d,
		"hashtag_name": %q,
		"rank": 1,
		"video_views": %d,
		"publish_cnt": %d,
		"country_info": {"value": %q},
		"industry_info": {"value": %q}
	}`, id, name, views, posts, country, industry)
}

// newTestCaller creates a Caller pointing every endpoint at the given server.
func newTestCaller(t *testing.T, serverURL string) *Caller {
	t.Helper()
	loader, _ := cfg.NewMockLoader()
	config, err := loader.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	logger, _ := log.NewCslLogger()
	caller := NewCaller(logger, config, CredentialFromConfig(config))
	caller.VideosUrl = serverURL + "/videos"
	caller.CreatorsUrl = serverURL + "/creators"
	caller.HashtagsUrl = serverURL + "/hashtags"
	return caller
}

// ---------------------------------------------------------------------------
// Trending videos tests
// ---------------------------------------------------------------------------

func TestFetchTrendingVideos_Mapping(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("Vertical") != "Lifestyle" {
			t.Errorf("expected Vertical=Lifestyle, got %q", r.URL.Query().Get("Vertical"))
		}
		if r.URL.Query().Get("PageNum") != "2" {
			t.Errorf("expected PageNum=2, got %q", r.URL.Query().Get("PageNum"))
		}
		if r.URL.Query().Get("aid") != "1988" {
			t.Errorf("expected aid=1988, got %q", r.URL.Query().Get("aid"))
		}
		w.Write([]byte(videosJSON(3)))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	posts, err := caller.FetchTrendingVideos(context.Background(), "Lifestyle", 2)
	if err != nil {
		t.Fatalf("FetchTrendingVideos: %v", err)
	}
	if len(posts) != 3 {
		t.Fatalf("expected 3 posts, got %d", len(posts))
	}

	first := posts[0]
	if first.ItemId != "vid0" {
		t.Errorf("expected item id vid0, got %q", first.ItemId)
	}
	if first.Url != "https://www.tiktok.com/@user0/video/vid0" {
		t.Errorf("unexpected url %q", first.Url)
	}
	if first.Genre != "Lifestyle" {
		t.Errorf("expected genre Lifestyle, got %q", first.Genre)
	}
	if first.PlayCount != 1000 {
		t.Errorf("expected 1000 plays, got %d", first.PlayCount)
	}
	if first.LikeCount != 10 {
		t.Errorf("expected 10 likes, got %d", first.LikeCount)
	}
	if first.Nickname != "User 0" {
		t.Errorf("expected nickname User 0, got %q", first.Nickname)
	}
}

func TestFetchTrendingVideos_UrlFallbackWithoutUniqueId(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"TrendingVideos": [{"ItemId": "abc", "ItemName": "x", "Author": {"NickName": "N", "UserId": "1"}, "LikeCount": 1, "PlayCount": 2}]}`))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	posts, err := caller.FetchTrendingVideos(context.Background(), "Society", 0)
	if err != nil {
		t.Fatalf("FetchTrendingVideos: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if posts[0].Url != "https://tiktok.com/@username/video/abc" {
		t.Errorf("expected placeholder url, got %q", posts[0].Url)
	}
}

func TestFetchTrendingVideos_SkipsItemsWithoutId(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"TrendingVideos": [
			{"ItemId": "", "ItemName": "ghost", "Author": {}, "LikeCount": 1, "PlayCount": 2},
			{"ItemId": "keep", "ItemName": "ok", "Author": {"UniqueId": "u"}, "LikeCount": 1, "PlayCount": 2}
		]}`))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	posts, err := caller.FetchTrendingVideos(context.Background(), "Society", 0)
	if err != nil {
		t.Fatalf("FetchTrendingVideos: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("expected 1 post after skipping empty id, got %d", len(posts))
	}
	if posts[0].ItemId != "keep" {
		t.Errorf("expected surviving item keep, got %q", posts[0].ItemId)
	}
}

func TestFetchTrendingVideos_MissingListIsEmptyPage(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	posts, err := caller.FetchTrendingVideos(context.Background(), "Nature", 5)
	if err != nil {
		t.Fatalf("expected no error for missing list, got %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("expected empty page, got %d posts", len(posts))
	}
}

func TestFetchTrendingVideos_Non200IsFetchError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	_, err := caller.FetchTrendingVideos(context.Background(), "Talents", 3)
	if err == nil {
		t.Fatal("expected error for 403 response")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", fetchErr.StatusCode)
	}
	if fetchErr.Endpoint != EndpointVideos {
		t.Errorf("expected endpoint %s, got %s", EndpointVideos, fetchErr.Endpoint)
	}
	if fetchErr.Vertical != "Talents" || fetchErr.Page != 3 {
		t.Errorf("expected context (Talents, 3), got (%s, %d)", fetchErr.Vertical, fetchErr.Page)
	}
}

func TestFetchTrendingVideos_InvalidJSONIsFetchError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	_, err := caller.FetchTrendingVideos(context.Background(), "Society", 0)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError for invalid body, got %v", err)
	}
}

func TestFetchTrendingVideos_AppliesCredentialHeaders(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Referer") != "https://www.tiktok.com/creator_studio/" {
			t.Errorf("missing referer header")
		}
		if r.Header.Get("Origin") != "https://www.tiktok.com" {
			t.Errorf("missing origin header")
		}
		if r.Header.Get("Cookie") != "sessionid=abc" {
			t.Errorf("expected cookie header, got %q", r.Header.Get("Cookie"))
		}
		if r.Header.Get("user-sign") != "signed" {
			t.Errorf("expected user-sign header, got %q", r.Header.Get("user-sign"))
		}
		w.Write([]byte(videosJSON(0)))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	caller.Credential.Cookie = "sessionid=abc"
	caller.Credential.UserSign = "signed"
	if _, err := caller.FetchTrendingVideos(context.Background(), "Society", 0); err != nil {
		t.Fatalf("FetchTrendingVideos: %v", err)
	}
}

// ---------------------------------------------------------------------------
// Trending creators tests
// ---------------------------------------------------------------------------

func TestFetchTrendingCreators_RankAcrossPages(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(creatorsJSON(
			creatorJSON("10", "alpha", 100, profileVideoJSON("a1", 10, 1)),
			creatorJSON("20", "beta", 200, profileVideoJSON("b1", 20, 2)),
			creatorJSON("30", "gamma", 300, profileVideoJSON("c1", 30, 3)),
		)))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)

	// Page size 10, page 1: thứ hạng nối tiếp trang trước
	creators, err := caller.FetchTrendingCreators(context.Background(), "Performance", 1)
	if err != nil {
		t.Fatalf("FetchTrendingCreators: %v", err)
	}
	if len(creators) != 3 {
		t.Fatalf("expected 3 records, got %d", len(creators))
	}
	wantRanks := []int{11, 12, 13}
	for i, want := range wantRanks {
		if creators[i].CreatorRank != want {
			t.Errorf("creator %d: expected rank %d, got %d", i, want, creators[i].CreatorRank)
		}
	}
	if creators[0].ProfileUrl != "https://www.tiktok.com/@alpha" {
		t.Errorf("unexpected profile url %q", creators[0].ProfileUrl)
	}
	if creators[0].VideoType != "Performance" {
		t.Errorf("expected video type Performance, got %q", creators[0].VideoType)
	}
}

func TestFetchTrendingCreators_OneRecordPerProfileVideo(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(creatorsJSON(
			creatorJSON("10", "alpha", 100,
				profileVideoJSON("a1", 10, 1),
				profileVideoJSON("a2", 500, 50),
				profileVideoJSON("a3", 100, 10),
			),
		)))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	creators, err := caller.FetchTrendingCreators(context.Background(), "Sport & Outdoor", 0)
	if err != nil {
		t.Fatalf("FetchTrendingCreators: %v", err)
	}
	if len(creators) != 3 {
		t.Fatalf("expected 3 records (one per video), got %d", len(creators))
	}

	// Video rank theo play + like giảm dần: a2 (550), a3 (110), a1 (11)
	wantOrder := []string{"a2", "a3", "a1"}
	for i, want := range wantOrder {
		if creators[i].VideoItemId != want {
			t.Errorf("position %d: expected video %s, got %s", i, want, creators[i].VideoItemId)
		}
		if creators[i].VideoRank != i+1 {
			t.Errorf("video %s: expected rank %d, got %d", want, i+1, creators[i].VideoRank)
		}
		if creators[i].CreatorRank != 1 {
			t.Errorf("video %s: expected creator rank 1, got %d", want, creators[i].CreatorRank)
		}
	}
	if creators[0].VideoUrl != "https://www.tiktok.com/@alpha/video/a2" {
		t.Errorf("unexpected video url %q", creators[0].VideoUrl)
	}
}

func TestFetchTrendingCreators_VideoRankTieKeepsOriginalOrder(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Hai video hòa điểm (110), video đứng trước trong payload giữ hạng cao hơn
		w.Write([]byte(creatorsJSON(
			creatorJSON("10", "alpha", 100,
				profileVideoJSON("first", 100, 10),
				profileVideoJSON("second", 100, 10),
				profileVideoJSON("top", 900, 90),
			),
		)))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	creators, err := caller.FetchTrendingCreators(context.Background(), "Society", 0)
	if err != nil {
		t.Fatalf("FetchTrendingCreators: %v", err)
	}

	wantOrder := []string{"top", "first", "second"}
	for i, want := range wantOrder {
		if creators[i].VideoItemId != want {
			t.Errorf("position %d: expected %s, got %s", i, want, creators[i].VideoItemId)
		}
	}
}

func TestFetchTrendingCreators_SkipsCreatorsWithoutUserId(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(creatorsJSON(
			`{"NickName": "ghost", "UniqueId": "g", "UserId": "", "ProfileVideoList": []}`,
			creatorJSON("10", "alpha", 100, profileVideoJSON("a1", 10, 1)),
		)))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	creators, err := caller.FetchTrendingCreators(context.Background(), "Society", 0)
	if err != nil {
		t.Fatalf("FetchTrendingCreators: %v", err)
	}
	if len(creators) != 1 {
		t.Fatalf("expected 1 record, got %d", len(creators))
	}
	// Rank tính theo vị trí trong payload, creator bị skip vẫn chiếm một slot
	if creators[0].CreatorRank != 2 {
		t.Errorf("expected creator rank 2, got %d", creators[0].CreatorRank)
	}
}

// ---------------------------------------------------------------------------
// Trending hashtags tests
// ---------------------------------------------------------------------------

func TestFetchTrendingHashtags_FlattensNestedValues(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "20" || q.Get("period") != "7" {
			t.Errorf("unexpected paging params: %v", q)
		}
		if q.Get("country_code") != "MY" || q.Get("sort_by") != "popular" {
			t.Errorf("unexpected filter params: %v", q)
		}
		w.Write([]byte(hashtagsJSON(
			hashtagJSON(111, "fyp", "MY", "Entertainment", 5000, 300),
		)))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	hashtags, err := caller.FetchTrendingHashtags(context.Background(), 2, 20, 7, "MY")
	if err != nil {
		t.Fatalf("FetchTrendingHashtags: %v", err)
	}
	if len(hashtags) != 1 {
		t.Fatalf("expected 1 hashtag, got %d", len(hashtags))
	}

	h := hashtags[0]
	if h.HashtagId != "111" {
		t.Errorf("expected id 111, got %q", h.HashtagId)
	}
	if h.Country != "MY" {
		t.Errorf("expected flattened country MY, got %q", h.Country)
	}
	if h.IndustryValue != "Entertainment" {
		t.Errorf("expected flattened industry, got %q", h.IndustryValue)
	}
	if h.VideoViews != 5000 || h.PublishCount != 300 {
		t.Errorf("unexpected metrics: views=%d posts=%d", h.VideoViews, h.PublishCount)
	}
}

func TestFetchTrendingHashtags_StringIdAccepted(t *testing.T) {
	t.Parallel()
	// Creative radar trả id khi là số, khi là chuỗi tùy phiên bản
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data": {"list": [{
			"hashtag_id": "999",
			"hashtag_name": "trend",
			"rank": 1,
			"video_views": 10,
			"publish_cnt": 2,
			"country_info": {"value": "MY"},
			"industry_info": {"value": ""}
		}]}}`))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	hashtags, err := caller.FetchTrendingHashtags(context.Background(), 0, 20, 7, "MY")
	if err != nil {
		t.Fatalf("FetchTrendingHashtags: %v", err)
	}
	if len(hashtags) != 1 || hashtags[0].HashtagId != "999" {
		t.Fatalf("expected string id to be accepted, got %+v", hashtags)
	}
}

func TestFetchTrendingHashtags_SkipsEntriesWithoutId(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(hashtagsJSON(
			`{"hashtag_name": "noid", "rank": 1, "video_views": 5, "publish_cnt": 1, "country_info": {"value": "MY"}, "industry_info": {"value": ""}}`,
			hashtagJSON(42, "keep", "MY", "", 10, 2),
		)))
	}))
	defer srv.Close()

	caller := newTestCaller(t, srv.URL)
	hashtags, err := caller.FetchTrendingHashtags(context.Background(), 0, 20, 7, "MY")
	if err != nil {
		t.Fatalf("FetchTrendingHashtags: %v", err)
	}
	if len(hashtags) != 1 {
		t.Fatalf("expected 1 hashtag after skipping empty id, got %d", len(hashtags))
	}
	if hashtags[0].HashtagName != "keep" {
		t.Errorf("expected surviving hashtag keep, got %q", hashtags[0].HashtagName)
	}
}

// ---------------------------------------------------------------------------
// Error formatting tests
// ---------------------------------------------------------------------------

func TestFetchError_Unwrap(t *testing.T) {
	t.Parallel()
	inner := errors.New("connection refused")
	err := &FetchError{Endpoint: EndpointVideos, Vertical: "Society", Page: 1, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to reach the wrapped error")
	}
	if !strings.Contains(err.Error(), "Society") || !strings.Contains(err.Error(), "page 1") {
		t.Errorf("expected context in message, got %q", err.Error())
	}
}

func TestFetchError_StatusMessage(t *testing.T) {
	t.Parallel()
	err := &FetchError{Endpoint: EndpointHashtags, Page: 4, StatusCode: 429}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("expected status in message, got %q", err.Error())
	}
}
