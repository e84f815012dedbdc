package repository

import (
	"fmt"
	"strconv"
	"strings"
)

// maxListResults caps the feed at 20 thoughts after filter and sort.
const maxListResults = 20

// ThoughtQuery is the store-level translation of the feed's optional
// query parameters. SortColumn only ever holds one of the whitelisted
// column names, so it is safe to splice into ORDER BY.
type ThoughtQuery struct {
	MinHearts  *uint64 // filter to thoughts with hearts >= MinHearts, nil = no filter
	SortColumn string  // "created_at" or "hearts"
	Desc       bool
	Limit      int
}

// BuildThoughtQuery turns the raw `hearts`, `sort` and `order` query
// parameters into a ThoughtQuery. Defaults: newest first, no hearts
// filter. Unrecognized sort or order values fall back to the defaults,
// but a non-numeric hearts value is rejected with ErrInvalidQuery rather
// than silently ignored.
func BuildThoughtQuery(hearts, sort, order string) (ThoughtQuery, error) {
	q := ThoughtQuery{SortColumn: "created_at", Desc: true, Limit: maxListResults}

	switch strings.ToLower(strings.TrimSpace(sort)) {
	case "date":
		q.SortColumn = "created_at"
	case "likes":
		q.SortColumn = "hearts"
	}
	if strings.EqualFold(strings.TrimSpace(order), "asc") {
		q.Desc = false
	}

	if s := strings.TrimSpace(hearts); s != "" {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return ThoughtQuery{}, fmt.Errorf("%w: hearts must be a non-negative integer", ErrInvalidQuery)
		}
		q.MinHearts = &n
	}
	return q, nil
}
