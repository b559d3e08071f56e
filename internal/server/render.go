package server

import (
	"errors"
	"net/http"

	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/apptype"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/lookup"
	"github.com/ZanzyTHEbar/mcp-wikidata-go/internal/response"
)

// reply is a transport-neutral rendering of one operation outcome.
type reply struct {
	status int
	body   string
	failed bool
}

func renderFindItem(refs []apptype.EntityRef, err error) reply {
	if err == nil && len(refs) == 0 {
		err = lookup.E(lookup.KindNoResults, "find item", lookup.ErrNoResults)
	}
	if err != nil {
		return renderFailure(err, response.FindItemNoResults, response.FindItemFailure)
	}
	body, err := response.WithTrailer(refs, response.FindItemTrailer)
	if err != nil {
		return renderFailure(err, response.FindItemNoResults, response.FindItemFailure)
	}
	return reply{status: http.StatusOK, body: body}
}

func renderQueryData(res *lookup.QueryResult, err error) reply {
	if err == nil && (res == nil || res.Data == nil || res.Data.Empty()) {
		err = lookup.E(lookup.KindNoResults, "query data", lookup.ErrNoResults)
	}
	if err != nil {
		return renderFailure(err, response.QueryDataNoResults, response.QueryDataFailure)
	}
	body, err := response.WithTrailer(res.Data, response.QueryDataTrailer)
	if err != nil {
		return renderFailure(err, response.QueryDataNoResults, response.QueryDataFailure)
	}
	return reply{status: http.StatusOK, body: body}
}

func renderFailure(err error, noResults string, describe func(error) string) reply {
	switch lookup.KindOf(err) {
	case lookup.KindNoResults:
		return reply{status: http.StatusInternalServerError, body: response.ErrorJSON(noResults), failed: true}
	case lookup.KindInvalidInput:
		return reply{status: http.StatusBadRequest, body: response.ErrorJSON(describe(cause(err))), failed: true}
	default:
		return reply{status: http.StatusInternalServerError, body: response.ErrorJSON(describe(cause(err))), failed: true}
	}
}

// cause strips the pipeline operation prefix so messages read like the
// underlying failure.
func cause(err error) error {
	var e *lookup.Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err
	}
	return err
}
