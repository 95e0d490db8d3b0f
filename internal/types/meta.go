package types

// ResponseMeta carries non-blocking metadata returned alongside list data.
type ResponseMeta struct {
	Total        int                `json:"total"`
	StatusCounts map[UsageLevel]int `json:"status_counts,omitempty"`
	Warnings     []string           `json:"warnings,omitempty"`
	CatalogAsOf  string             `json:"catalog_as_of,omitempty"`
}
