package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Application configuration
	WatchlistsDir string
	Port          string
	WorkerCount   int
	GatherTimeout int // seconds, whole-run budget
	FetchTimeout  int // seconds, per-query budget
	APIAccessKey  string

	// Keyword expansion
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	MaxExpansions int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
