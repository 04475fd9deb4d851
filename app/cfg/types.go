package cfg

type Cfg struct {
	// Upstream record source configuration
	UpstreamURL       string
	UpstreamTimeout   int
	UpstreamRateLimit float64

	// Application configuration
	Port            string
	ViewsDir        string
	WorkerCount     int
	RefreshInterval int
	APIAccessKey    string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
