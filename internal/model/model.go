package model

import (
	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/pkg/db"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

type Model struct {
	Config *cfg.Config `gorm:"-"`
	Logger log.Logger  `gorm:"-"`
	Sqlite *db.Sqlite  `gorm:"-"`
}
