package apptype

// EntityRef identifies a Wikidata subject returned by entity search
type EntityRef struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// AttributeQuery is a request for the attributes of one entity.
// Terms order matters: the first matching term wins.
type AttributeQuery struct {
	ItemID   string   `json:"itemId"`
	Terms    []string `json:"terms"`
	Language string   `json:"language"`
}

// GraphBinding is one row of a SPARQL result table
type GraphBinding struct {
	AttributeLabel string `json:"attributeLabel"`
	Value          string `json:"value"`
	QualifierLabel string `json:"qualifierLabel,omitempty"`
	QualifierValue string `json:"qualifierValue,omitempty"`
}

// SynonymSet maps each input term to its related words, in the order the
// thesaurus returned them.
type SynonymSet map[string][]string
