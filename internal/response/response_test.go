package response

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/filter"
)

func TestWithTrailer_LeadingJSONThenSentence(t *testing.T) {
	body, err := WithTrailer([]map[string]string{{"id": "Q513", "label": "Mount Everest & co"}}, FindItemTrailer)
	require.NoError(t, err)

	assert.Equal(t, `[{"id":"Q513","label":"Mount Everest & co"}] `+FindItemTrailer, body)

	// the leading JSON value must be decodable on its own
	dec := json.NewDecoder(strings.NewReader(body))
	var v []map[string]string
	require.NoError(t, dec.Decode(&v))
	assert.Equal(t, "Q513", v[0]["id"])
}

func TestErrorJSON(t *testing.T) {
	var got ErrorBody
	require.NoError(t, json.Unmarshal([]byte(ErrorJSON(QueryDataNoResults)), &got))
	assert.Equal(t, QueryDataNoResults, got.Error)
	assert.Contains(t, got.Error, "['mass', 'weight']")
}

func TestFailureMessages(t *testing.T) {
	err := errors.New("sparql http status: 503 Service Unavailable")
	assert.Equal(t, "Failed to search wikidata page with error: sparql http status: 503 Service Unavailable", QueryDataFailure(err))
	assert.Equal(t, "Failed to search wikidata with error: sparql http status: 503 Service Unavailable", FindItemFailure(err))
}

func TestWithTrailer_CompactUTF8Mapping(t *testing.T) {
	res := filter.NewResult()
	res.Add("höhe", "<8 849 m>")
	res.Add("höhe", "a & b")
	res.Add("名前", "エベレスト")

	body, err := WithTrailer(res, QueryDataTrailer)
	require.NoError(t, err)
	assert.Equal(t, `{"höhe":["<8 849 m>","a & b"],"名前":["エベレスト"]} `+QueryDataTrailer, body)

	b, err := Marshal(map[string][]string{"höhe": {"a & b"}})
	require.NoError(t, err)
	assert.Equal(t, `{"höhe":["a & b"]}`, string(b))
}
