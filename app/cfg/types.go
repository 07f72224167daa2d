package cfg

type Cfg struct {
	// Feed selection
	OpmlURL  string
	MaxFeeds int

	// Digest pipeline
	HoursBack int
	MaxItems  int
	ChunkSize int

	// Networking
	FetchTimeout int     // seconds
	FetchRate    float64 // outbound requests per second

	// Background processing
	RefreshInterval int // minutes
	WorkerCount     int

	// HTTP server
	Port         string
	APIAccessKey string

	// AI summarization
	OpenAIAPIKey string
	OpenAIModel  string

	// Storage
	DBPath string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
