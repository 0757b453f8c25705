package repository

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
)

// ListQuery holds the filter parameters of a product listing request.
// Callers supply Page >= 1 and Limit >= 1; a page past the last one
// returns an empty result, not an error.
type ListQuery struct {
	Search   string
	Category string
	Sort     string
	Page     int
	Limit    int
}

// Filter builds the Mongo filter document. Search is a
// case-insensitive literal substring match on the product name. A
// category of "" or "all" imposes no filter; any other value is
// matched exactly, so unknown categories yield zero results.
func (q ListQuery) Filter() bson.M {
	filter := bson.M{}
	if q.Search != "" {
		filter["name"] = bson.M{
			"$regex":   regexp.QuoteMeta(q.Search),
			"$options": "i",
		}
	}
	if q.Category != "" && q.Category != "all" {
		filter["category"] = q.Category
	}
	return filter
}

// SortSpec maps the public sort keys onto Mongo sort documents.
// Unknown keys fall back to newest-first.
func (q ListQuery) SortSpec() bson.D {
	switch q.Sort {
	case "price_low":
		return bson.D{{Key: "price", Value: 1}}
	case "price_high":
		return bson.D{{Key: "price", Value: -1}}
	case "name":
		return bson.D{{Key: "name", Value: 1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

// Skip returns the 1-based page window offset.
func (q ListQuery) Skip() int64 {
	return int64((q.Page - 1) * q.Limit)
}

// PageMeta is the pagination metadata derived from a count and window.
type PageMeta struct {
	TotalPages    int
	CurrentPage   int
	TotalProducts int64
	HasNext       bool
	HasPrev       bool
}

func NewPageMeta(total int64, page, limit int) PageMeta {
	totalPages := 0
	if limit > 0 {
		totalPages = int(total / int64(limit))
		if total%int64(limit) != 0 {
			totalPages++
		}
	}
	return PageMeta{
		TotalPages:    totalPages,
		CurrentPage:   page,
		TotalProducts: total,
		HasNext:       page < totalPages,
		HasPrev:       page > 1,
	}
}
