package filter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestApply_KeepsOnlyMatchingLabels(t *testing.T) {
	bindings := []apptype.GraphBinding{
		{AttributeLabel: "height", Value: "8,849 m"},
		{AttributeLabel: "location", Value: "Nepal/China"},
	}
	res, dropped := New().Apply(bindings, []string{"height"})

	assert.Equal(t, []string{"height"}, res.Labels())
	assert.Equal(t, []string{"8,849 m"}, res.Values("height"))
	assert.Equal(t, 1, dropped)
}

func TestApply_ThresholdBoundary(t *testing.T) {
	scores := map[string]int{"at": 80, "below": 79, "above": 95}
	f := New(WithScorer(ScorerFunc(func(term, label string) int { return scores[label] })))

	bindings := []apptype.GraphBinding{
		{AttributeLabel: "below", Value: "1"},
		{AttributeLabel: "at", Value: "2"},
		{AttributeLabel: "above", Value: "3"},
	}
	res, dropped := f.Apply(bindings, []string{"anything"})

	assert.Equal(t, []string{"at", "above"}, res.Labels())
	assert.Equal(t, 1, dropped)
}

func TestMatch_FirstTermWins(t *testing.T) {
	var seen []string
	scorer := ScorerFunc(func(term, label string) int {
		seen = append(seen, term)
		return PartialRatio(term, label)
	})
	f := New(WithScorer(scorer))

	term, score, ok := f.Match("mass", []string{"mass", "weight"})
	require.True(t, ok)
	assert.Equal(t, "mass", term)
	assert.Equal(t, 100, score)
	assert.Equal(t, []string{"mass"}, seen, "weight must not be scored once mass matched")

	seen = nil
	term, _, ok = f.Match("mass", []string{"weight", "mass"})
	require.True(t, ok)
	assert.Equal(t, "mass", term)
	assert.Equal(t, []string{"weight", "mass"}, seen)
}

func TestMatch_TieBreakFollowsListOrder(t *testing.T) {
	f := New(WithScorer(ScorerFunc(func(term, label string) int { return 80 })))
	term, _, ok := f.Match("height", []string{"elevation", "height"})
	require.True(t, ok)
	assert.Equal(t, "elevation", term)
}

func TestMatch_IsCaseInsensitive(t *testing.T) {
	_, score, ok := New().Match("Height Above Sea Level", []string{"ELEVATION", "height"})
	require.True(t, ok)
	assert.Equal(t, 100, score)
}

func TestApply_EmptyTermsAndNoBindings(t *testing.T) {
	bindings := []apptype.GraphBinding{{AttributeLabel: "mass", Value: "0.5 kg"}}

	res, dropped := New().Apply(bindings, nil)
	assert.True(t, res.Empty())
	assert.Equal(t, 1, dropped)

	res, dropped = New().Apply(nil, []string{"mass"})
	assert.True(t, res.Empty())
	assert.Equal(t, 0, dropped)
}

func TestApply_PreservesBindingOrderWithoutDedup(t *testing.T) {
	bindings := []apptype.GraphBinding{
		{AttributeLabel: "population", Value: "300"},
		{AttributeLabel: "mass", Value: "2 kg"},
		{AttributeLabel: "population", Value: "100"},
		{AttributeLabel: "population", Value: "300"},
	}
	res, _ := New().Apply(bindings, []string{"population", "mass"})

	assert.Equal(t, []string{"population", "mass"}, res.Labels())
	assert.Equal(t, []string{"300", "100", "300"}, res.Values("population"))
}

func TestApply_Idempotent(t *testing.T) {
	bindings := []apptype.GraphBinding{
		{AttributeLabel: "height", Value: "8,849 m"},
		{AttributeLabel: "elevation above sea level", Value: "8,848 m"},
		{AttributeLabel: "country", Value: "Nepal"},
	}
	terms := []string{"elevation", "height"}

	a, _ := New().Apply(bindings, terms)
	b, _ := New().Apply(bindings, terms)
	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestResult_MarshalKeepsInsertionOrder(t *testing.T) {
	res := NewResult()
	res.Add("zeta", "1")
	res.Add("alpha", "<2>")
	res.Add("zeta", "3")

	b, err := res.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":["1","3"],"alpha":["<2>"]}`, string(b))
	assert.Equal(t, map[string][]string{"zeta": {"1", "3"}, "alpha": {"<2>"}}, res.Map())
}

func TestResult_EmptyMarshal(t *testing.T) {
	b, err := NewResult().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(b))
}
