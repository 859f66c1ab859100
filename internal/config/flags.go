package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses configuration flags from args (usually os.Args[1:]).
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-frontend-url origin allowed by CORS
//	-redis redis address in format host:port
//	-rate-limit requests allowed per window
//	-rate-window rate limit window (e.g., "15m")
//	-github-token GitHub API token
//	-github-sync-interval background GitHub sync interval
//	-log-level zerolog level name
func ParseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("dev-profiles", flag.ContinueOnError)

	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var tokenSignKey string
	var tokenIssuer string
	var requestTimeout time.Duration
	var frontendURL string
	var redisAddress string
	var rateLimit int
	var rateWindow time.Duration
	var githubToken string
	var githubSyncInterval time.Duration
	var logLevel string

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	fs.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.StringVar(&frontendURL, "frontend-url", "", "Origin allowed by CORS")
	fs.StringVar(&redisAddress, "redis", "", "Redis address host:port")
	fs.IntVar(&rateLimit, "rate-limit", 0, "Requests allowed per rate window")
	fs.DurationVar(&rateWindow, "rate-window", 0, "Rate limit window (e.g., 15m)")
	fs.StringVar(&githubToken, "github-token", "", "GitHub API token")
	fs.DurationVar(&githubSyncInterval, "github-sync-interval", 0, "GitHub sync interval (e.g., 1h)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			TokenSignKey: tokenSignKey,
			TokenIssuer:  tokenIssuer,
			LogLevel:     logLevel,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Redis: Redis{
				Addr: redisAddress,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
			FrontendURL:    frontendURL,
			RateLimit:      rateLimit,
			RateWindow:     rateWindow,
		},
		Adapter: Adapter{
			GitHub: GitHub{
				Token: githubToken,
			},
		},
		Workers: Workers{
			GitHubSyncInterval: githubSyncInterval,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
