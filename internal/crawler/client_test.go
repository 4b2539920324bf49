package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
)

// listingServer serves pageCount pages of perPage items each, then an empty
// page, asserting the browser header set on every request.
func listingServer(t *testing.T, pageCount, perPage int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Errorf("User-Agent = %q, want browser UA", got)
		}
		if got := r.Header.Get("Referer"); got != referer {
			t.Errorf("Referer = %q, want %q", got, referer)
		}

		start, _ := strconv.Atoi(r.URL.Query().Get("start"))
		count, _ := strconv.Atoi(r.URL.Query().Get("count"))

		w.Header().Set("Content-Type", "application/json")
		if start >= pageCount*perPage || count == 0 {
			fmt.Fprint(w, `{"items": []}`)
			return
		}

		fmt.Fprint(w, `{"items": [`)
		for i := 0; i < perPage; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			id := start + i + 1
			fmt.Fprintf(w, `{"id": "%d", "title": "Show %d", "card_subtitle": "2024 / 剧情", "rating": {"value": 8.0}}`, id, id)
		}
		fmt.Fprint(w, `]}`)
	}))
}

func TestFetchAllPagesUntilEmpty(t *testing.T) {
	srv := listingServer(t, 3, 2)
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, PageSize: 2})
	shows, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}

	if len(shows) != 6 {
		t.Fatalf("len(shows) = %d, want 6", len(shows))
	}
	pages, items := client.Stats()
	if pages != 3 || items != 6 {
		t.Fatalf("Stats = %d pages / %d items, want 3/6", pages, items)
	}

	// Source order is preserved across pages.
	if shows[0].Title != "Show 1" || shows[5].Title != "Show 6" {
		t.Fatalf("unexpected ordering: first %q last %q", shows[0].Title, shows[5].Title)
	}
	if shows[0].DetailURL != "https://movie.douban.com/subject/1/" {
		t.Fatalf("DetailURL = %q", shows[0].DetailURL)
	}
}

func TestFetchAllRespectsMaxPages(t *testing.T) {
	srv := listingServer(t, 10, 2)
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, PageSize: 2, MaxPages: 2})
	shows, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}
	if len(shows) != 4 {
		t.Fatalf("len(shows) = %d, want 4", len(shows))
	}
}

func TestFetchAllFirstPageFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "tea time", http.StatusTeapot)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, PageSize: 2})
	if _, err := client.FetchAll(context.Background()); err == nil {
		t.Fatalf("expected error when the first page fails")
	}
}

func TestFetchAllKeepsPartialBatch(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items": [{"id": "1", "title": "Show 1", "card_subtitle": "2024 / 剧情"}]}`)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, PageSize: 1})
	shows, err := client.FetchAll(context.Background())
	if err != nil {
		t.Fatalf("FetchAll error: %v, want partial batch without error", err)
	}
	if len(shows) != 1 {
		t.Fatalf("len(shows) = %d, want the partial batch of 1", len(shows))
	}
}
