package cfg

type MockLoader struct{}

func NewMockLoader() (*MockLoader, error) {
	return &MockLoader{}, nil
}

func (yl *MockLoader) Load() (*Config, error) {
	return &Config{
		// App
		App: App{
			Name:    "tiktok-crawler",
			Version: "0.0.1",
		},

		// Sqlite
		Sqlite: Sqlite{
			Path:                  "database/tiktokdb.db",
			MaxIdleConnection:     10,
			MaxOpenConnection:     100,
			MaxLifeTimeConnection: 3600,
		},

		// TiktokApi
		TiktokApi: TiktokApi{
			TrendingVideosUrl:   "https://www.tiktok.com/creator_studio/inspiration/trending/video/v2",
			TrendingCreatorsUrl: "https://www.tiktok.com/creator_studio/inspiration/trending/creator/v2",
			TrendingHashtagsUrl: "https://ads.tiktok.com/creative_radar_api/v1/popular_trend/hashtag/list",
			Verticals: []string{
				"Entertainment", "Beauty_Style", "Performance", "Sport & Outdoor",
				"Society", "Lifestyle", "Auto_Vehicle", "Talents", "Nature",
				"Culture_Education_Technology", "Supernatural_Horror",
			},
			TargetPages:       10,
			PageSize:          10,
			Region:            "MY",
			HashtagLimit:      20,
			HashtagPeriod:     7,
			HashtagCountry:    "MY",
			ThrottleDelay:     500,
			RequestsPerSecond: 2,
			UserAgent:         "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36",
			Cookie:            "",
		},

		// Kafka
		Kafka: Kafka{
			Brokers: []string{"127.0.0.1:9092"},
			Producer: KafkaProducer{
				TopicPost:    "tiktok-posts",
				TopicCreator: "tiktok-creators",
				TopicHashtag: "tiktok-hashtags",
			},
		},
	}, nil
}
