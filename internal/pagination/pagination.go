package pagination

import (
	"errors"
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

var (
	ErrInvalidSkip  = errors.New("Invalid skip value")
	ErrInvalidLimit = errors.New("Invalid limit value")
)

// Page is an OFFSET/LIMIT window over an ordered result set.
type Page struct {
	Skip  int
	Limit int
}

func Default() Page {
	return Page{Skip: 0, Limit: DefaultLimit}
}

// FromRequest reads skip and limit from the query string.
func FromRequest(r *http.Request) (Page, error) {
	page := Default()
	q := r.URL.Query()

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return Page{}, ErrInvalidSkip
		}
		page.Skip = skip
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return Page{}, ErrInvalidLimit
		}
		page.Limit = limit
	}

	return page, nil
}
