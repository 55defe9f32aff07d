package tmdb

import (
	"fmt"
	"net/http"
	"time"

	"github.com/outracoisa/filmoteca/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	userAgent     = "filmoteca/1.0"
	listCachePref = "tmdb:list:"
	listCacheTTL  = 15 * time.Minute
)

// Client handles communication with the TMDB API
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
	redis      *redis.Client // nil disables response caching
	logger     *logrus.Logger
}

// NewClient creates a new TMDB API client. A nil Redis handle turns the
// response cache off entirely.
func NewClient(cfg *config.Config, rdb *redis.Client, logger *logrus.Logger) (*Client, error) {
	if cfg.TMDBAPIKey == "" {
		return nil, fmt.Errorf("TMDB API key is required")
	}

	return &Client{
		baseURL:    cfg.TMDBBaseURL,
		apiKey:     cfg.TMDBAPIKey,
		language:   cfg.Language,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		redis:      rdb,
		logger:     logger,
	}, nil
}

// StatusError reports a non-2xx response from the TMDB API
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("TMDB API returned status %d: %s", e.StatusCode, e.Body)
}
