package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/outracoisa/filmoteca/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Entry represents one raw movie entry from a TMDB listing response
type Entry struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   *string `json:"poster_path"`
	BackdropPath *string `json:"backdrop_path"`
	ReleaseDate  string  `json:"release_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
}

type listResponse struct {
	Results []Entry `json:"results"`
}

// categoryPaths maps each listing bucket to its fixed TMDB endpoint
var categoryPaths = map[models.Category]string{
	models.CategoryPopular:    "/movie/popular",
	models.CategoryNowPlaying: "/movie/now_playing",
	models.CategoryTopRated:   "/movie/top_rated",
	models.CategoryUpcoming:   "/movie/upcoming",
}

// FetchCategory fetches one page of a listing bucket. The returned order is
// the remote's own ranking for that category. No retry on failure.
func (c *Client) FetchCategory(ctx context.Context, category models.Category, page int) ([]Entry, error) {
	path, ok := categoryPaths[category]
	if !ok {
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("%s%s:%s:%d", listCachePref, category, c.language, page)
	if entries, ok := c.cachedEntries(ctx, cacheKey); ok {
		return entries, nil
	}

	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	params.Set("page", strconv.Itoa(page))

	fullURL := c.baseURL + path + "?" + params.Encode()
	c.logger.WithFields(logrus.Fields{
		"category": category,
		"page":     page,
	}).Debug("Fetching TMDB listing")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TMDB request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var list listResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode TMDB response: %w", err)
	}

	c.logger.WithFields(logrus.Fields{
		"category": category,
		"count":    len(list.Results),
	}).Debug("TMDB listing fetched")

	c.storeEntries(ctx, cacheKey, list.Results)
	return list.Results, nil
}

// cachedEntries reads a listing from the Redis response cache, if enabled
func (c *Client) cachedEntries(ctx context.Context, key string) ([]Entry, bool) {
	if c.redis == nil {
		return nil, false
	}

	cached, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.WithError(err).Warn("Failed to read TMDB listing from cache")
		}
		return nil, false
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(cached), &entries); err != nil {
		c.logger.WithError(err).Warn("Failed to unmarshal cached TMDB listing")
		return nil, false
	}

	c.logger.WithField("key", key).Debug("TMDB listing served from cache")
	return entries, true
}

func (c *Client) storeEntries(ctx context.Context, key string, entries []Entry) {
	if c.redis == nil {
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		c.logger.WithError(err).Warn("Failed to marshal TMDB listing for caching")
		return
	}

	if err := c.redis.Set(ctx, key, data, listCacheTTL).Err(); err != nil {
		c.logger.WithError(err).Warn("Failed to write TMDB listing to cache")
	}
}
