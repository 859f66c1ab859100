package config

import "time"

// Built-in defaults applied after every other configuration source.
const (
	DefaultTokenIssuer        = "dev-profiles"
	DefaultLogLevel           = "info"
	DefaultHTTPAddress        = "0.0.0.0:5000"
	DefaultRequestTimeout     = 30 * time.Second
	DefaultFrontendURL        = "http://localhost:5173"
	DefaultRateLimit          = 100
	DefaultRateWindow         = 15 * time.Minute
	DefaultGitHubAPIBaseURL   = "https://api.github.com"
	DefaultGitHubTimeout      = 10 * time.Second
	DefaultMailFrom           = "Dev Profiles <noreply@devprofiles.local>"
	DefaultGitHubSyncInterval = time.Hour
	DefaultGitHubSyncBatch    = 50
	DefaultGitHubStaleAfter   = 24 * time.Hour
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer: DefaultTokenIssuer,
			LogLevel:    DefaultLogLevel,
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
			FrontendURL:    DefaultFrontendURL,
			RateLimit:      DefaultRateLimit,
			RateWindow:     DefaultRateWindow,
		},
		Adapter: Adapter{
			GitHub: GitHub{
				APIBaseURL: DefaultGitHubAPIBaseURL,
				Timeout:    DefaultGitHubTimeout,
			},
			Mail: Mail{
				From: DefaultMailFrom,
			},
		},
		Workers: Workers{
			GitHubSyncInterval: DefaultGitHubSyncInterval,
			GitHubSyncBatch:    DefaultGitHubSyncBatch,
			GitHubStaleAfter:   DefaultGitHubStaleAfter,
		},
	}
}
