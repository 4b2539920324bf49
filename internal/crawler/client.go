package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/DavidHLP/DoubanTV-Insight/internal/models"
)

const (
	recommendURL = "https://m.douban.com/rexxar/api/v2/tv/recommend"

	// The recommend API rejects plain clients, so requests carry the header set
	// a desktop browser would send from the movie listing page.
	userAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:139.0) Gecko/20100101 Firefox/139.0"
	referer   = "https://movie.douban.com/tv/"
	origin    = "https://movie.douban.com"

	defaultPageSize       = 20
	defaultRequestTimeout = 15 * time.Second
)

// Config controls how the listing is paged through.
type Config struct {
	BaseURL  string        // Listing endpoint; defaults to the recommend API
	PageSize int           // Items requested per page; defaults to 20
	Delay    time.Duration // Pause between page fetches
	MaxPages int           // 0 means fetch until the source returns no items
}

// Client fetches the Douban hot-TV recommend listing page by page.
type Client struct {
	http *http.Client
	cfg  Config

	pages int
	items int
}

// New creates a listing client.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = recommendURL
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = defaultPageSize
	}
	return &Client{
		http: &http.Client{Timeout: defaultRequestTimeout},
		cfg:  cfg,
	}
}

// Stats reports pages fetched and items collected by the last FetchAll run.
func (c *Client) Stats() (pages, items int) {
	return c.pages, c.items
}

// FetchAll pages through the listing until the source reports no more items,
// accumulating normalized entries. A fetch failure after at least one
// successful page keeps the partial batch; a failure on the first page is an
// error.
func (c *Client) FetchAll(ctx context.Context) ([]models.TVShow, error) {
	c.pages, c.items = 0, 0

	var all []models.TVShow
	start := 0

	for {
		if c.cfg.MaxPages > 0 && c.pages >= c.cfg.MaxPages {
			log.Info().Int("max_pages", c.cfg.MaxPages).Msg("Reached page limit, stopping")
			break
		}

		payload, err := c.fetchPage(ctx, start)
		if err != nil {
			if len(all) == 0 {
				return nil, err
			}
			log.Warn().Err(err).Int("start", start).Msg("Page fetch failed, keeping partial batch")
			break
		}

		if len(payload.Items) == 0 {
			log.Debug().Int("start", start).Msg("No more items from source")
			break
		}

		for _, item := range payload.Items {
			all = append(all, item.toShow())
		}
		c.pages++
		c.items = len(all)

		log.Info().
			Int("page", c.pages).
			Int("page_items", len(payload.Items)).
			Int("total_items", len(all)).
			Msg("Page fetched")

		start += c.cfg.PageSize

		if c.cfg.Delay > 0 {
			select {
			case <-time.After(c.cfg.Delay):
			case <-ctx.Done():
				return all, ctx.Err()
			}
		} else if ctx.Err() != nil {
			return all, ctx.Err()
		}
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, start int) (*recommendPayload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	q := url.Values{}
	q.Set("refresh", "0")
	q.Set("start", strconv.Itoa(start))
	q.Set("count", strconv.Itoa(c.cfg.PageSize))
	q.Set("selected_categories", `{"地区":"欧美"}`)
	q.Set("uncollect", "false")
	q.Set("score_range", "0,10")
	q.Set("tags", "欧美")
	req.URL.RawQuery = q.Encode()

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "zh-CN,zh;q=0.8,en-US;q=0.3,en;q=0.2")
	req.Header.Set("Origin", origin)
	req.Header.Set("Referer", referer)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page at %d: %w", start, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing page at %d: unexpected status %d", start, resp.StatusCode)
	}

	var payload recommendPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode listing page at %d: %w", start, err)
	}

	return &payload, nil
}
