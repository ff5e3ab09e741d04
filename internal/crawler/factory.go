package crawler

import (
	"fmt"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/pkg/db"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

func FactoryCrawler(version string, logger log.Logger, config *cfg.Config, sqlite *db.Sqlite) (Crawler, error) {
	switch version {
	case "v1":
		return NewCrawlerV1(logger, config, sqlite)
	case "v2":
		return NewCrawlerV2(logger, config, sqlite)
	default:
		return nil, fmt.Errorf("[ERROR] Unsupported crawler version: %s", version)
	}
}
