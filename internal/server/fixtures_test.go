package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/httpx"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/lookup"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/wikidata"
)

const everestBindings = `{"results":{"bindings":[
  {"wdLabel":{"value":"height"},"ps_Label":{"value":"8,849 m"}},
  {"wdLabel":{"value":"mass"},"ps_Label":{"value":"unknown"}},
  {"wdLabel":{"value":"country"},"ps_Label":{"value":"Nepal"}},
  {"wdLabel":{"value":"country"},"ps_Label":{"value":"China"}}
]}}`

// fakeWikidata serves /w/api.php and /sparql with canned data:
// Q513 is Mount Everest, Q1 has no statements and Q503 is unavailable.
type fakeWikidata struct {
	*httptest.Server
	calls atomic.Int32
}

func newFakeWikidata(t *testing.T) *fakeWikidata {
	t.Helper()
	f := &fakeWikidata{}
	mux := http.NewServeMux()
	mux.HandleFunc("/w/api.php", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		if r.URL.Query().Get("search") == "zzzz" {
			_, _ = w.Write([]byte(`{"search":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"search":[{"id":"Q513","label":"Mount Everest","description":"Earth's highest mountain"}]}`))
	})
	mux.HandleFunc("/sparql", func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		q := r.URL.Query().Get("query")
		switch {
		case strings.Contains(q, "wd:Q513)"):
			_, _ = w.Write([]byte(everestBindings))
		case strings.Contains(q, "wd:Q503)"):
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			_, _ = w.Write([]byte(`{"results":{"bindings":[]}}`))
		}
	})
	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeWikidata) pipeline() *lookup.Service {
	client := httpx.NewClient(0)
	return lookup.New(
		wikidata.NewSearcher(f.URL+"/w/api.php", "test", 0, client),
		wikidata.NewSPARQLClient(f.URL+"/sparql", "test", client),
	)
}
