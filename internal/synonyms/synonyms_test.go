package synonyms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/httpx"
)

type stubProvider struct {
	calls []string
	words map[string][]string
	fail  map[string]error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Related(_ context.Context, term string) ([]string, error) {
	s.calls = append(s.calls, term)
	if err := s.fail[term]; err != nil {
		return nil, err
	}
	return s.words[term], nil
}

func TestExpander_SequentialInTermOrder(t *testing.T) {
	p := &stubProvider{words: map[string][]string{
		"height": {"elevation", "altitude"},
		"mass":   {"weight"},
	}}
	set, err := NewExpander(p, PolicyAbort, nil).Expand(context.Background(), []string{"height", "mass"})
	require.NoError(t, err)
	assert.Equal(t, []string{"height", "mass"}, p.calls)
	assert.Equal(t, apptype.SynonymSet{
		"height": {"elevation", "altitude"},
		"mass":   {"weight"},
	}, set)
}

func TestExpander_AbortStopsAtFirstFailure(t *testing.T) {
	boom := errors.New("boom")
	p := &stubProvider{fail: map[string]error{"height": boom}}
	_, err := NewExpander(p, PolicyAbort, nil).Expand(context.Background(), []string{"height", "mass"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, []string{"height"}, p.calls)
}

func TestExpander_SkipKeepsGoing(t *testing.T) {
	p := &stubProvider{
		words: map[string][]string{"mass": {"weight"}},
		fail:  map[string]error{"height": errors.New("boom")},
	}
	set, err := NewExpander(p, PolicySkip, nil).Expand(context.Background(), []string{"height", "mass"})
	require.NoError(t, err)
	assert.Equal(t, []string{"height", "mass"}, p.calls)
	assert.Empty(t, set["height"])
	assert.Equal(t, []string{"weight"}, set["mass"])
}

func TestExpander_SkipStillAbortsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &stubProvider{fail: map[string]error{"height": context.Canceled}}
	_, err := NewExpander(p, PolicySkip, nil).Expand(ctx, []string{"height"})
	assert.Error(t, err)
}

func TestTerms_CallerTermsFirst(t *testing.T) {
	set := apptype.SynonymSet{
		"height": {"elevation", "Height", "altitude"},
		"mass":   {"weight", "altitude"},
	}
	assert.Equal(t,
		[]string{"height", "mass", "elevation", "altitude", "weight"},
		Terms([]string{"height", "mass"}, set))
	assert.Empty(t, Terms(nil, set))
}

func TestParseModeAndPolicy(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeAdvisory, m)
	m, err = ParseMode("EXPAND")
	require.NoError(t, err)
	assert.Equal(t, ModeExpand, m)
	_, err = ParseMode("sometimes")
	assert.Error(t, err)

	p, err := ParseFailurePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyAbort, p)
	p, err = ParseFailurePolicy("skip")
	require.NoError(t, err)
	assert.Equal(t, PolicySkip, p)
	_, err = ParseFailurePolicy("retry")
	assert.Error(t, err)
}

func TestDatamuseProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sea level & height", r.URL.Query().Get("ml"))
		_, _ = w.Write([]byte(`[{"word":"elevation","score":900,"tags":["n"]},{"word":"altitude","score":800}]`))
	}))
	defer srv.Close()

	p := NewProvider(Config{DatamuseURL: srv.URL}, httpx.NewClient(0))
	require.NotNil(t, p)
	assert.Equal(t, "datamuse", p.Name())
	words, err := p.Related(context.Background(), "sea level & height")
	require.NoError(t, err)
	assert.Equal(t, []string{"elevation", "altitude"}, words)
}

func TestDatamuseProvider_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewProvider(Config{DatamuseURL: srv.URL}, httpx.NewClient(0)).Related(context.Background(), "height")
	var se *httpx.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
}

func TestOpenAIProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-4o-mini",
			"choices": [{"index": 0, "finish_reason": "stop",
				"message": {"role": "assistant", "content": "[\"elevation\", \"altitude\"]"}}]
		}`))
	}))
	defer srv.Close()

	p := NewProvider(Config{Provider: "openai", OpenAIAPIKey: "test-key", OpenAIBaseURL: srv.URL + "/v1"}, httpx.NewClient(0))
	require.NotNil(t, p)
	assert.Equal(t, "openai", p.Name())
	words, err := p.Related(context.Background(), "height")
	require.NoError(t, err)
	assert.Equal(t, []string{"elevation", "altitude"}, words)
}

func TestNewProvider_OpenAIWithoutKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	assert.Nil(t, NewProvider(Config{Provider: "openai"}, httpx.NewClient(0)))
}

func TestParseWordList(t *testing.T) {
	words, err := parseWordList("```json\n[\"elevation\", \"altitude\",]\n```", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"elevation", "altitude"}, words)

	words, err = parseWordList(`["a", " ", "b", "c"]`, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, words)
}
