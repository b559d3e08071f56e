package synonyms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/httpx"
)

// Datamuse "means like" lookups
// Docs: https://www.datamuse.com/api/
// Endpoint: https://api.datamuse.com/words?ml=<term>

// DefaultDatamuseURL is the public Datamuse words endpoint.
const DefaultDatamuseURL = "https://api.datamuse.com/words"

type datamuseProvider struct {
	endpoint string
	max      int
	http     httpx.Doer
}

func newDatamuseProvider(endpoint string, max int, doer httpx.Doer) Provider {
	if endpoint == "" {
		endpoint = DefaultDatamuseURL
	}
	return &datamuseProvider{endpoint: endpoint, max: max, http: doer}
}

func (p *datamuseProvider) Name() string { return "datamuse" }

func (p *datamuseProvider) Related(ctx context.Context, term string) ([]string, error) {
	u, err := url.Parse(p.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("ml", term)
	if p.max > 0 {
		q.Set("max", strconv.Itoa(p.max))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpx.Drain(resp)
	if err := httpx.CheckStatus("datamuse", resp); err != nil {
		return nil, err
	}
	var out []struct {
		Word  string `json:"word"`
		Score int    `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrMalformed, err)
	}
	words := make([]string, 0, len(out))
	for _, w := range out {
		words = append(words, w.Word)
	}
	return words, nil
}
