package cfg

type Cfg struct {
	// HTTP configuration
	Port           string
	FrontendOrigin string

	// Database configuration
	DBPath string

	// Seeding configuration
	SourcesDir string
	SeedLimit  int

	// Search provider configuration
	SearchAPIURL string
	SearchAPIKey string
	SearchLimit  int

	// Generative-text provider configuration
	LLMAPIURL string
	LLMAPIKey string

	// Rewrite length policy
	LengthPolicy     string
	TargetWordCount  int
	LengthMultiplier float64
	ReferenceChars   int

	// Pipeline timing
	FetchTimeout    int
	EnhanceInterval int
	EnhanceJitter   float64

	// Background processing
	WorkerCount       int
	SchedulerInterval int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
