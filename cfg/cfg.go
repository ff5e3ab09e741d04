package cfg

type (
	App struct {
		Name    string
		Version string
	}

	Sqlite struct {
		Path                  string
		MaxIdleConnection     int
		MaxOpenConnection     int
		MaxLifeTimeConnection int
	}

	TiktokApi struct {
		TrendingVideosUrl   string
		TrendingCreatorsUrl string
		TrendingHashtagsUrl string
		Verticals           []string
		TargetPages         int
		PageSize            int
		Region              string
		HashtagLimit        int
		HashtagPeriod       int
		HashtagCountry      string
		ThrottleDelay       int
		RequestsPerSecond   int

		// Credential bundle được cung cấp từ bên ngoài, không hard-code
		UserAgent       string
		Cookie          string
		DeviceId        string
		AnonymousUserId string
		UserSign        string
		WebId           string
		CsrfToken       string
		Timestamp       string
	}

	Kafka struct {
		Brokers  []string
		Producer KafkaProducer
	}

	KafkaProducer struct {
		TopicPost    string
		TopicCreator string
		TopicHashtag string
	}
)

type Config struct {
	App       App
	Sqlite    Sqlite
	TiktokApi TiktokApi
	Kafka     Kafka
}
