package server

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// ErrorResponse is a problem details body as of RFC 9457
type ErrorResponse struct {
	Detail   *string `json:"detail,omitempty"`
	Instance *string `json:"instance,omitempty"`
	Status   int     `json:"status"`
	Title    string  `json:"title"`
	Type     *string `json:"type,omitempty"`
}

type Position struct {
	Column int `json:"column"`
	Line   int `json:"line"`
}

type EntryLinks struct {
	Self  string `json:"self"`
	Value string `json:"value"`
}

type Entry struct {
	Comment  *string     `json:"comment,omitempty"`
	FileRef  *string     `json:"fileRef,omitempty"`
	Kind     string      `json:"kind"`
	Links    *EntryLinks `json:"links,omitempty"`
	Metadata bool        `json:"metadata"`
	Name     string      `json:"name"`
	Position Position    `json:"position"`
	Type     string      `json:"type"`
}

type EntriesMeta struct {
	Total int `json:"total"`
}

type EntriesResponse struct {
	Data []Entry     `json:"data"`
	Meta EntriesMeta `json:"meta"`
}

type EntryResponse struct {
	Data Entry `json:"data"`
}

type SearchHit struct {
	Links    *EntryLinks `json:"links,omitempty"`
	Metadata bool        `json:"metadata"`
	Name     string      `json:"name"`
	Score    float64     `json:"score"`
}

type SearchResponse struct {
	Data []SearchHit `json:"data"`
}

// GetEntriesParams defines parameters for GetEntries.
type GetEntriesParams struct {
	// Include is a comma separated list of gitignore-style name patterns selecting entries
	Include *string `form:"include,omitempty" json:"include,omitempty"`
	// Exclude is a comma separated list of gitignore-style name patterns excluding entries
	Exclude *string `form:"exclude,omitempty" json:"exclude,omitempty"`
	// Metadata adds the metadata entries to the list
	Metadata *bool `form:"metadata,omitempty" json:"metadata,omitempty"`
}

// GetEntryParams defines parameters for GetEntry.
type GetEntryParams struct {
	Metadata *bool `form:"metadata,omitempty" json:"metadata,omitempty"`
}

// GetEntryValueParams defines parameters for GetEntryValue.
type GetEntryValueParams struct {
	Metadata *bool `form:"metadata,omitempty" json:"metadata,omitempty"`
}

// SearchEntriesParams defines parameters for SearchEntries.
type SearchEntriesParams struct {
	// Q is a bleve query string query
	Q string `form:"q" json:"q"`
}
