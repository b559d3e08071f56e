package apptype

// FindItemArgs represents the arguments for the find_item tool
type FindItemArgs struct {
	Name     string `json:"name" jsonschema:"Title of the item you are looking for data on."`
	Language string `json:"language,omitempty" jsonschema:"Language (i18n locale code). Defaults to en."`
}

// QueryDataArgs represents the arguments for the query_data tool
type QueryDataArgs struct {
	ItemID   string   `json:"itemId" jsonschema:"The id of the item selected from the results of find_item."`
	Queries  []string `json:"queries" jsonschema:"List of queries to fuzzy match with item attribute keys."`
	Language string   `json:"language,omitempty" jsonschema:"Language (i18n locale code). Defaults to en."`
}

// Health
type HealthArgs struct{}

type HealthResult struct {
	Name          string `json:"name"`
	Version       string `json:"version"`
	Revision      string `json:"revision"`
	BuildDate     string `json:"buildDate"`
	SynonymMode   string `json:"synonymMode"`
	SynonymSource string `json:"synonymSource"`
	Breaker       bool   `json:"breaker"`
}
