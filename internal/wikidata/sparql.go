package wikidata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/httpx"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/metrics"
)

// DefaultSPARQLURL is the public Wikidata Query Service endpoint.
const DefaultSPARQLURL = "https://query.wikidata.org/sparql"

// SPARQLClient runs queries against a SPARQL endpoint.
type SPARQLClient struct {
	endpoint  string
	userAgent string
	http      httpx.Doer
}

// NewSPARQLClient creates a client for endpoint. An empty endpoint uses
// DefaultSPARQLURL.
func NewSPARQLClient(endpoint, userAgent string, doer httpx.Doer) *SPARQLClient {
	if endpoint == "" {
		endpoint = DefaultSPARQLURL
	}
	return &SPARQLClient{endpoint: endpoint, userAgent: userAgent, http: doer}
}

type sparqlValue struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sparqlResponse struct {
	Results *struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

// Query sends query in a single GET and returns its rows in response order.
// Every row must carry wdLabel and ps_Label.
func (c *SPARQLClient) Query(ctx context.Context, query string) (bindings []apptype.GraphBinding, err error) {
	done := metrics.TimeUpstream("sparql")
	defer func() { done(err == nil) }()

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("query", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/sparql-results+json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpx.Drain(resp)
	if err := httpx.CheckStatus("sparql", resp); err != nil {
		return nil, err
	}

	var out sparqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", httpx.ErrMalformed, err)
	}
	if out.Results == nil {
		return nil, fmt.Errorf("%w: missing results", httpx.ErrMalformed)
	}

	bindings = make([]apptype.GraphBinding, 0, len(out.Results.Bindings))
	for i, row := range out.Results.Bindings {
		label, ok := row["wdLabel"]
		if !ok {
			return nil, fmt.Errorf("%w: row %d has no wdLabel", httpx.ErrMalformed, i)
		}
		value, ok := row["ps_Label"]
		if !ok {
			return nil, fmt.Errorf("%w: row %d has no ps_Label", httpx.ErrMalformed, i)
		}
		bindings = append(bindings, apptype.GraphBinding{
			AttributeLabel: label.Value,
			Value:          value.Value,
			QualifierLabel: row["wdpqLabel"].Value,
			QualifierValue: row["pq_Label"].Value,
		})
	}
	return bindings, nil
}
