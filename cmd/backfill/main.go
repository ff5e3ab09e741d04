// Backfill nạp lại các file CSV export cũ vào database.
// Dùng driver sqlite thuần Go và SQL thô để giữ đúng semantics INSERT OR IGNORE,
// không đi qua lớp gorm của crawler.
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"

	_ "modernc.org/sqlite"

	"github.com/tunetouch/tiktok-crawler/cfg"
	"github.com/tunetouch/tiktok-crawler/pkg/log"
)

func main() {
	dbPath := flag.String("db", "", "Path to the sqlite database file (defaults to the configured path)")
	postsFile := flag.String("posts", "", "CSV file of trending posts to import")
	creatorsFile := flag.String("creators", "", "CSV file of trending creators to import")
	hashtagsFile := flag.String("hashtags", "", "CSV file of trending hashtags to import")
	flag.Parse()

	ctx := context.Background()
	logger, _ := log.NewCslLogger()

	if *postsFile == "" && *creatorsFile == "" && *hashtagsFile == "" {
		fmt.Println("Please specify at least one CSV file: -posts, -creators or -hashtags")
		os.Exit(1)
	}

	path := *dbPath
	if path == "" {
		loader, _ := cfg.NewViperLoader()
		config, err := loader.Load()
		if err != nil {
			logger.Error(ctx, "Failed to load config: %v", err)
			os.Exit(1)
		}
		path = config.Sqlite.Path
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		logger.Error(ctx, "Không thể mở database: %v", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := createTables(conn); err != nil {
		logger.Error(ctx, "Không thể tạo bảng: %v", err)
		os.Exit(1)
	}

	if *postsFile != "" {
		if err := importCsv(conn, *postsFile, "posts", postColumns); err != nil {
			logger.Error(ctx, "Posts import error: %v", err)
			os.Exit(1)
		}
		logger.Info(ctx, "Imported posts from %s", *postsFile)
	}

	if *creatorsFile != "" {
		if err := importCsv(conn, *creatorsFile, "creators", creatorColumns); err != nil {
			logger.Error(ctx, "Creators import error: %v", err)
			os.Exit(1)
		}
		logger.Info(ctx, "Imported creators from %s", *creatorsFile)
	}

	if *hashtagsFile != "" {
		if err := importCsv(conn, *hashtagsFile, "hashtags", hashtagColumns); err != nil {
			logger.Error(ctx, "Hashtags import error: %v", err)
			os.Exit(1)
		}
		logger.Info(ctx, "Imported hashtags from %s", *hashtagsFile)
	}

	logger.Info(ctx, "CSV data inserted successfully into database")
}

var postColumns = []string{
	"url", "nickname", "user_id", "item_id", "item_name", "genre",
	"like_count", "play_count", "crawl_date", "crawl_time",
}

var creatorColumns = []string{
	"nickname", "uniqueId", "user_id", "follower_count", "bio",
	"creator_rank", "video_type", "video_item_id", "video_name", "video_url",
	"profile_url", "video_play_count", "video_like_count", "video_rank",
	"crawl_date", "crawl_time",
}

var hashtagColumns = []string{
	"hashtag_id", "hashtag_name", "country", "rank", "video_views",
	"publish_count", "industry_value", "crawl_date", "crawl_time",
}

// createTables đảm bảo schema tồn tại, khớp với schema mà crawler migrate ra
func createTables(conn *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS posts (
			url TEXT,
			nickname TEXT,
			user_id TEXT,
			item_id TEXT,
			item_name TEXT,
			genre TEXT,
			like_count INTEGER,
			play_count INTEGER,
			crawl_date TEXT,
			crawl_time TEXT,
			PRIMARY KEY (item_id, crawl_date, crawl_time)
		)`,
		`CREATE TABLE IF NOT EXISTS creators (
			nickname TEXT,
			uniqueId TEXT,
			user_id TEXT,
			follower_count INTEGER,
			bio TEXT,
			creator_rank INTEGER,
			video_type TEXT,
			video_item_id TEXT,
			video_name TEXT,
			video_url TEXT,
			profile_url TEXT,
			video_play_count INTEGER,
			video_like_count INTEGER,
			video_rank INTEGER,
			crawl_date TEXT,
			crawl_time TEXT,
			PRIMARY KEY (user_id, video_item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS hashtags (
			hashtag_id TEXT,
			hashtag_name TEXT,
			country TEXT,
			rank INTEGER,
			video_views INTEGER,
			publish_count INTEGER,
			industry_value TEXT,
			crawl_date TEXT,
			crawl_time TEXT,
			PRIMARY KEY (hashtag_id, crawl_date, crawl_time)
		)`,
	}
	for _, stmt := range statements {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// importCsv đọc một file CSV có header và insert từng dòng với INSERT OR IGNORE.
// Cột được map theo tên header nên thứ tự cột trong file không quan trọng.
func importCsv(conn *sql.DB, file, table string, columns []string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", file, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}
	for _, col := range columns {
		if _, ok := index[col]; !ok {
			return fmt.Errorf("missing column %q in %s", col, file)
		}
	}

	query := insertOrIgnoreQuery(table, columns)
	stmt, err := conn.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	txStmt := tx.Stmt(stmt)

	var rows int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to read %s: %w", file, err)
		}

		args := make([]any, 0, len(columns))
		skip := false
		for _, col := range columns {
			i := index[col]
			if i >= len(record) {
				skip = true
				break
			}
			args = append(args, record[i])
		}
		if skip {
			continue
		}

		if _, err := txStmt.Exec(args...); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert into %s: %w", table, err)
		}
		rows++
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	fmt.Printf("%s: processed %d rows\n", table, rows)
	return nil
}

func insertOrIgnoreQuery(table string, columns []string) string {
	cols := ""
	placeholders := ""
	for i, col := range columns {
		if i > 0 {
			cols += ", "
			placeholders += ", "
		}
		cols += col
		placeholders += "?"
	}
	return fmt.Sprintf("INSERT OR IGNORE INTO %s (%s) VALUES (%s)", table, cols, placeholders)
}
