package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/httpx"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/metrics"
)

const (
	// DefaultSearchURL is the MediaWiki action API of wikidata.org.
	DefaultSearchURL = "https://www.wikidata.org/w/api.php"
	// DefaultSearchLimit is how many candidates wbsearchentities returns.
	DefaultSearchLimit = 5
)

// Searcher resolves free-text names to Wikidata entities.
type Searcher struct {
	endpoint  string
	userAgent string
	limit     int
	http      httpx.Doer
}

// NewSearcher creates a Searcher. Zero values fall back to the defaults.
func NewSearcher(endpoint, userAgent string, limit int, doer httpx.Doer) *Searcher {
	if endpoint == "" {
		endpoint = DefaultSearchURL
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	return &Searcher{endpoint: endpoint, userAgent: userAgent, limit: limit, http: doer}
}

// Search calls wbsearchentities and returns the candidates in ranking order.
func (s *Searcher) Search(ctx context.Context, name, lang string) (refs []apptype.EntityRef, err error) {
	done := metrics.TimeUpstream("search")
	defer func() { done(err == nil) }()

	u, err := url.Parse(s.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("action", "wbsearchentities")
	q.Set("format", "json")
	q.Set("language", lang)
	q.Set("search", name)
	q.Set("limit", strconv.Itoa(s.limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpx.Drain(resp)
	if err := httpx.CheckStatus("search", resp); err != nil {
		return nil, err
	}

	// The action API reports errors with a 200 and an "error" object.
	var out struct {
		Search []apptype.EntityRef `json:"search"`
		Error  *struct {
			Code string `json:"code"`
			Info string `json:"info"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrMalformed, err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("search error: %s: %s", out.Error.Code, out.Error.Info)
	}
	if out.Search == nil {
		return []apptype.EntityRef{}, nil
	}
	return out.Search, nil
}
