package api

import (
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/hlog"
)

const (
	proxyUserAgent = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:139.0) Gecko/20100101 Firefox/139.0"
	proxyReferer   = "https://movie.douban.com/"

	proxyTimeout = 20 * time.Second
)

// ImageProxy fetches external cover images on behalf of the browser, which
// cannot load them directly because the image host checks the Referer.
type ImageProxy struct {
	client *http.Client
}

// NewImageProxy creates a proxy handler. A nil client gets a default with a
// bounded timeout; redirects are followed.
func NewImageProxy(client *http.Client) *ImageProxy {
	if client == nil {
		client = &http.Client{Timeout: proxyTimeout}
	}
	return &ImageProxy{client: client}
}

// Proxy streams the upstream image back with its content type.
func (p *ImageProxy) Proxy(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		writeResponse(w, r, http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: "missing required parameter: url",
		})
		return
	}

	target, err := url.Parse(rawURL)
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") {
		writeResponse(w, r, http.StatusBadRequest, Response{
			Code:    http.StatusBadRequest,
			Message: "invalid 'url' parameter: must be an absolute http(s) URL",
		})
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, target.String(), nil)
	if err != nil {
		log.Error().Err(err).Str("url", rawURL).Msg("Error building upstream image request")
		writeServerError(w, r, err)
		return
	}
	req.Header.Set("User-Agent", proxyUserAgent)
	req.Header.Set("Referer", proxyReferer)

	resp, err := p.client.Do(req)
	if err != nil {
		log.Error().Err(err).Str("url", rawURL).Msg("Error fetching upstream image")
		writeResponse(w, r, http.StatusBadGateway, Response{
			Code:    http.StatusBadGateway,
			Message: "failed to fetch image: " + err.Error(),
		})
		return
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Error().Err(err).Str("url", rawURL).Msg("Error streaming image body to client")
	}
}
