package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog/hlog"

	"github.com/DavidHLP/DoubanTV-Insight/internal/server/query"
	"github.com/DavidHLP/DoubanTV-Insight/internal/server/storage"
)

const (
	apiName    = "DoubanTV Insight API"
	apiVersion = "1.0.0"
)

// Response is the envelope wrapping every JSON reply.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ShowsHandler holds dependencies for the listing, stats and detail endpoints.
type ShowsHandler struct {
	repo storage.ShowRepository
}

// NewShowsHandler creates a new handler instance.
func NewShowsHandler(repo storage.ShowRepository) *ShowsHandler {
	return &ShowsHandler{repo: repo}
}

// Root reports service metadata.
func (h *ShowsHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeResponse(w, r, http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "welcome to the DoubanTV Insight API",
		Data: map[string]string{
			"api_name": apiName,
			"version":  apiVersion,
		},
	})
}

// HotTV serves the filtered, sorted, paginated listing of the latest snapshot.
func (h *ShowsHandler) HotTV(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	params, err := parseListingParams(r.URL.Query())
	if err != nil {
		log.Warn().Err(err).Msg("Invalid listing parameter")
		writeResponse(w, r, http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		})
		return
	}

	items, err := h.repo.LatestItems(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error loading latest snapshot")
		writeServerError(w, r, err)
		return
	}

	result := params.Apply(items)
	log.Debug().Int("total", result.Total).Int("page", result.Page).Msg("Listing served")

	writeResponse(w, r, http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "hot tv list retrieved",
		Data:    result,
	})
}

// RateStats serves the fixed-bucket rating histogram.
func (h *ShowsHandler) RateStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, "rate stats retrieved", query.RateStats)
}

// CategoryStats serves the per-genre histogram.
func (h *ShowsHandler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, "category stats retrieved", query.CategoryStats)
}

// AreaStats serves the per-area histogram.
func (h *ShowsHandler) AreaStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, "area stats retrieved", query.AreaStats)
}

// YearStats serves the per-year histogram, ascending by year.
func (h *ShowsHandler) YearStats(w http.ResponseWriter, r *http.Request) {
	h.serveStats(w, r, "year stats retrieved", query.YearStats)
}

// serveStats runs one aggregation over the full latest projection. Listing
// filters never apply here; stats always summarize the entire snapshot.
func (h *ShowsHandler) serveStats(w http.ResponseWriter, r *http.Request, message string, aggregate func([]query.TVItem) []query.Stat) {
	log := hlog.FromRequest(r)

	items, err := h.repo.LatestItems(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error loading latest snapshot")
		writeServerError(w, r, err)
		return
	}

	writeResponse(w, r, http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    aggregate(items),
	})
}

// TVDetail looks up one show by its detail URL. A miss is a normal outcome and
// answers a 404-coded body over HTTP 200, not an HTTP 404.
func (h *ShowsHandler) TVDetail(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeResponse(w, r, http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: "missing required parameter: url",
		})
		return
	}

	items, err := h.repo.LatestItems(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Error loading latest snapshot")
		writeServerError(w, r, err)
		return
	}

	item, found := query.FindByURL(items, rawURL)
	if !found {
		log.Debug().Str("url", rawURL).Msg("Show not found in latest snapshot")
		writeResponse(w, r, http.StatusOK, Response{
			Code:    http.StatusNotFound,
			Message: "tv show not found",
		})
		return
	}

	writeResponse(w, r, http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "tv detail retrieved",
		Data:    item,
	})
}

func parseListingParams(q url.Values) (query.Params, error) {
	params := query.Params{
		Keyword:   q.Get("keyword"),
		Category:  q.Get("category"),
		Area:      q.Get("area"),
		Page:      query.DefaultPage,
		PageSize:  query.DefaultPageSize,
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
	}

	var err error
	if params.Year, err = intParam(q, "year"); err != nil {
		return params, err
	}
	if params.MinRate, err = floatParam(q, "min_rate"); err != nil {
		return params, err
	}
	if params.MaxRate, err = floatParam(q, "max_rate"); err != nil {
		return params, err
	}

	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid 'page' parameter: must be a positive integer")
		}
		params.Page = page
	}
	if raw := q.Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil || size < 1 {
			return params, fmt.Errorf("invalid 'page_size' parameter: must be a positive integer")
		}
		params.PageSize = size
	}

	return params, nil
}

func intParam(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid '%s' parameter: must be an integer", key)
	}
	return &v, nil
}

func floatParam(q url.Values, key string) (*float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid '%s' parameter: must be a number", key)
	}
	return &v, nil
}

// writeServerError answers a 500 envelope carrying the original error message.
func writeServerError(w http.ResponseWriter, r *http.Request, err error) {
	writeResponse(w, r, http.StatusInternalServerError, Response{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	})
}

func writeResponse(w http.ResponseWriter, r *http.Request, status int, resp Response) {
	log := hlog.FromRequest(r)

	jsonBytes, err := json.Marshal(resp)
	if err != nil {
		log.Error().Err(err).Msg("Error marshaling JSON response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, writeErr := w.Write(jsonBytes); writeErr != nil {
		log.Error().Err(writeErr).Msg("Error writing JSON response body to client")
	}
}
