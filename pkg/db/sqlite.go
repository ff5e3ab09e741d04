package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Sqlite struct {
	Config  *cfg.Config
	once    sync.Once
	db      *gorm.DB
	initErr error
}

func NewSqlite(config *cfg.Config) (*Sqlite, error) {
	return &Sqlite{
		Config: config,
	}, nil
}

func (s *Sqlite) DSN() string {
	return s.Config.Sqlite.Path
}

func (s *Sqlite) Db() (*gorm.DB, error) {
	s.once.Do(func() {
		// Tạo thư mục chứa file database nếu chưa tồn tại
		dir := filepath.Dir(s.Config.Sqlite.Path)
		if dir != "." && dir != "" {
			if s.initErr = os.MkdirAll(dir, 0o755); s.initErr != nil {
				return
			}
		}

		// Open connection
		var db *gorm.DB
		db, s.initErr = gorm.Open(sqlite.Open(s.DSN()), &gorm.Config{})
		if s.initErr != nil {
			return
		}

		// Get sqlDB
		var sqlDB *sql.DB
		sqlDB, s.initErr = db.DB()
		if s.initErr != nil {
			return
		}

		// Setting connection pool
		sqlDB.SetMaxIdleConns(s.Config.Sqlite.MaxIdleConnection)
		sqlDB.SetMaxOpenConns(s.Config.Sqlite.MaxOpenConnection)
		sqlDB.SetConnMaxLifetime(time.Duration(s.Config.Sqlite.MaxLifeTimeConnection) * time.Second)

		//
		s.db = db
	})
	return s.db, s.initErr
}

func (s *Sqlite) Ping() error {
	db, err := s.Db()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

func (s *Sqlite) Close() error {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err != nil {
			return err
		}
		sqlDB.Close()
	}
	return nil
}

func (s *Sqlite) Migrate(models ...interface{}) error {
	db, err := s.Db()
	if err != nil {
		return err
	}
	return db.AutoMigrate(models...)
}
