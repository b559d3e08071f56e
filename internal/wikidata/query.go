// Package wikidata talks to the Wikidata entity search API and the Wikidata
// Query Service.
package wikidata

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	itemIDPattern   = regexp.MustCompile(`^[QPL][1-9][0-9]*$`)
	languagePattern = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z0-9]{1,8})*$`)
)

// ErrInvalidItemID and ErrInvalidLanguage reject values that would otherwise
// be spliced into SPARQL text.
var (
	ErrInvalidItemID   = errors.New("invalid item id")
	ErrInvalidLanguage = errors.New("invalid language")
)

// ValidateItemID accepts Wikidata item, property and lexeme ids such as Q42.
func ValidateItemID(id string) error {
	if !itemIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q (expected an id such as Q42)", ErrInvalidItemID, id)
	}
	return nil
}

// ValidateLanguage accepts a language code or a comma-separated fallback
// list such as "de,en".
func ValidateLanguage(lang string) error {
	if lang == "" {
		return fmt.Errorf("%w: empty", ErrInvalidLanguage)
	}
	for _, code := range strings.Split(lang, ",") {
		if !languagePattern.MatchString(code) {
			return fmt.Errorf("%w: %q", ErrInvalidLanguage, lang)
		}
	}
	return nil
}

const attributeQueryTemplate = `
SELECT ?wdLabel ?ps_Label ?wdpqLabel ?pq_Label {
    VALUES (?item) {(wd:%s)}

    ?item ?p ?statement .
    ?statement ?ps ?ps_ .

    ?wd wikibase:claim ?p.
    ?wd wikibase:statementProperty ?ps.

    OPTIONAL {
    ?statement ?pq ?pq_ .
    ?wdpq wikibase:qualifier ?pq .
    }

    SERVICE wikibase:label { bd:serviceParam wikibase:language "%s" }
} ORDER BY ?wd ?statement ?ps_
`

// BuildAttributeQuery returns SPARQL that lists every statement of itemID,
// its optional qualifiers, and labels for properties and values in lang.
// Both arguments are validated before substitution.
func BuildAttributeQuery(itemID, lang string) (string, error) {
	if err := ValidateItemID(itemID); err != nil {
		return "", err
	}
	if err := ValidateLanguage(lang); err != nil {
		return "", err
	}
	return fmt.Sprintf(attributeQueryTemplate, itemID, lang), nil
}
