package tiktokapi

import (
	"net/http"

	"github.com/tunetouch/tiktok-crawler/cfg"
)

// Credential là bundle phiên đăng nhập (cookie, header nhận dạng trình duyệt)
// được host cung cấp từ bên ngoài và có thể thay mới giữa các run.
// Không bao giờ hard-code giá trị phiên vào source.
type Credential struct {
	UserAgent       string
	Cookie          string
	DeviceId        string
	AnonymousUserId string
	UserSign        string
	WebId           string
	CsrfToken       string
	Timestamp       string
}

func CredentialFromConfig(config *cfg.Config) *Credential {
	return &Credential{
		UserAgent:       config.TiktokApi.UserAgent,
		Cookie:          config.TiktokApi.Cookie,
		DeviceId:        config.TiktokApi.DeviceId,
		AnonymousUserId: config.TiktokApi.AnonymousUserId,
		UserSign:        config.TiktokApi.UserSign,
		WebId:           config.TiktokApi.WebId,
		CsrfToken:       config.TiktokApi.CsrfToken,
		Timestamp:       config.TiktokApi.Timestamp,
	}
}

// Apply gắn bộ header giả lập trình duyệt và credential vào request
func (c *Credential) Apply(req *http.Request) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Referer", "https://www.tiktok.com/creator_studio/")
	req.Header.Set("Origin", "https://www.tiktok.com")

	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if c.Cookie != "" {
		req.Header.Set("Cookie", c.Cookie)
	}
	if c.AnonymousUserId != "" {
		req.Header.Set("anonymous-user-id", c.AnonymousUserId)
	}
	if c.UserSign != "" {
		req.Header.Set("user-sign", c.UserSign)
	}
	if c.WebId != "" {
		req.Header.Set("web-id", c.WebId)
	}
	if c.CsrfToken != "" {
		req.Header.Set("x-csrftoken", c.CsrfToken)
	}
	if c.Timestamp != "" {
		req.Header.Set("timestamp", c.Timestamp)
	}
}
