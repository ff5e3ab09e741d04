package crawler

// CrawlCounts là số record mới ghi nhận được của lần crawl gần nhất
type CrawlCounts struct {
	Posts    int
	Creators int
	Hashtags int
}

type Crawler interface {
	Crawl() bool
	Stats() CrawlCounts
}
