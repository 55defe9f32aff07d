package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/outracoisa/filmoteca/internal/config"
	"github.com/outracoisa/filmoteca/internal/models"
	"github.com/sirupsen/logrus"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	client, err := NewClient(&config.Config{
		TMDBAPIKey:  "test-key",
		TMDBBaseURL: server.URL,
		Language:    "pt-BR",
	}, nil, logger)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return client
}

func TestFetchCategorySuccess(t *testing.T) {
	body := `{
		"results": [
			{
				"id": 550,
				"title": "Clube da Luta",
				"overview": "Um homem deprimido...",
				"poster_path": "/abc.jpg",
				"backdrop_path": null,
				"release_date": "1999-10-15",
				"vote_average": 8.4,
				"vote_count": 27000
			},
			{
				"id": 680,
				"title": "Pulp Fiction",
				"overview": "As vidas de dois assassinos...",
				"poster_path": null,
				"backdrop_path": "/def.jpg",
				"release_date": "1994-09-10",
				"vote_average": 8.5,
				"vote_count": 25000
			}
		]
	}`

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/movie/top_rated" {
			t.Errorf("Expected path /movie/top_rated, got %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("api_key") != "test-key" {
			t.Errorf("Expected api_key test-key, got %s", query.Get("api_key"))
		}
		if query.Get("language") != "pt-BR" {
			t.Errorf("Expected language pt-BR, got %s", query.Get("language"))
		}
		if query.Get("page") != "1" {
			t.Errorf("Expected page 1, got %s", query.Get("page"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})

	entries, err := client.FetchCategory(context.Background(), models.CategoryTopRated, 1)
	if err != nil {
		t.Fatalf("FetchCategory failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}

	// Remote order must be preserved
	if entries[0].ID != 550 || entries[1].ID != 680 {
		t.Errorf("Entry order mismatch: got %d, %d", entries[0].ID, entries[1].ID)
	}

	first := entries[0]
	if first.Title != "Clube da Luta" {
		t.Errorf("Title mismatch: %s", first.Title)
	}
	if first.PosterPath == nil || *first.PosterPath != "/abc.jpg" {
		t.Errorf("Poster path mismatch: %v", first.PosterPath)
	}
	if first.BackdropPath != nil {
		t.Errorf("Expected nil backdrop path, got %v", *first.BackdropPath)
	}
	if first.VoteAverage != 8.4 || first.VoteCount != 27000 {
		t.Errorf("Vote fields mismatch: %f, %d", first.VoteAverage, first.VoteCount)
	}

	if entries[1].PosterPath != nil {
		t.Errorf("Expected nil poster path for second entry")
	}
}

func TestFetchCategoryStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status_message":"Invalid API key"}`))
	})

	_, err := client.FetchCategory(context.Background(), models.CategoryPopular, 1)
	if err == nil {
		t.Fatal("Expected error for 401 response")
	}

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected StatusError, got %T: %v", err, err)
	}
	if statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", statusErr.StatusCode)
	}
}

func TestFetchCategoryDecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": not-json`))
	})

	_, err := client.FetchCategory(context.Background(), models.CategoryPopular, 1)
	if err == nil {
		t.Fatal("Expected decode error")
	}
}

func TestFetchCategoryUnknownCategory(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Server should not be reached for an unknown category")
	})

	_, err := client.FetchCategory(context.Background(), models.Category("bogus"), 1)
	if err == nil {
		t.Fatal("Expected error for unknown category")
	}
}

func TestCategoryEndpoints(t *testing.T) {
	expected := map[models.Category]string{
		models.CategoryPopular:    "/movie/popular",
		models.CategoryNowPlaying: "/movie/now_playing",
		models.CategoryTopRated:   "/movie/top_rated",
		models.CategoryUpcoming:   "/movie/upcoming",
	}

	for category, path := range expected {
		if categoryPaths[category] != path {
			t.Errorf("Category %s: expected path %s, got %s", category, path, categoryPaths[category])
		}
	}
}

func TestImageURLs(t *testing.T) {
	path := "/abc.jpg"
	if got := PosterURL(&path); got != "https://image.tmdb.org/t/p/w500/abc.jpg" {
		t.Errorf("PosterURL mismatch: %s", got)
	}

	if got := PosterURL(nil); got != placeholderURL {
		t.Errorf("Expected placeholder for nil poster path, got %s", got)
	}

	empty := ""
	if got := BackdropURL(&empty); got != placeholderURL {
		t.Errorf("Expected placeholder for empty backdrop path, got %s", got)
	}
}
