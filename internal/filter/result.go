package filter

import (
	"bytes"
	"encoding/json"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Result groups accepted values under their attribute label. Labels keep
// the order in which they were first accepted and values keep binding order.
type Result struct {
	m *orderedmap.OrderedMap[string, []string]
}

// NewResult returns an empty Result.
func NewResult() *Result {
	return &Result{m: orderedmap.New[string, []string]()}
}

// Add appends value under label, creating the label on first use.
func (r *Result) Add(label, value string) {
	vals, _ := r.m.Get(label)
	r.m.Set(label, append(vals, value))
}

// Len is the number of distinct labels.
func (r *Result) Len() int { return r.m.Len() }

// Empty reports whether no binding was accepted.
func (r *Result) Empty() bool { return r.m.Len() == 0 }

// Labels returns the accepted labels in insertion order.
func (r *Result) Labels() []string {
	out := make([]string, 0, r.m.Len())
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Values returns the values filed under label.
func (r *Result) Values(label string) []string {
	vals, _ := r.m.Get(label)
	return vals
}

// Map flattens the result into a plain map. Ordering is lost.
func (r *Result) Map() map[string][]string {
	out := make(map[string][]string, r.m.Len())
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}

// MarshalJSON writes the labels as a JSON object in insertion order.
func (r *Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	out := []byte{'{'}
	first := true
	for pair := r.m.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			out = append(out, ',')
		}
		first = false

		buf.Reset()
		if err := enc.Encode(pair.Key); err != nil {
			return nil, err
		}
		out = append(out, bytes.TrimRight(buf.Bytes(), "\n")...)
		out = append(out, ':')

		buf.Reset()
		if err := enc.Encode(pair.Value); err != nil {
			return nil, err
		}
		out = append(out, bytes.TrimRight(buf.Bytes(), "\n")...)
	}
	return append(out, '}'), nil
}
