package storefront

// FilterState is the effective product listing filter of one view:
// search text, category, sort key and page window. It is mirrored to
// session storage so a detail-page round trip restores it.
type FilterState struct {
	Search   string `json:"search"`
	Category string `json:"category"`
	Sort     string `json:"sort"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
}

const defaultPageSize = 6

func DefaultFilters() FilterState {
	return FilterState{
		Category: "all",
		Page:     1,
		Limit:    defaultPageSize,
	}
}
