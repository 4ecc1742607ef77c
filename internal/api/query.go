package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidStartDate = errors.New("Invalid start_date value")
	ErrInvalidEndDate   = errors.New("Invalid end_date value")
	ErrInvalidDateRange = errors.New("start_date must not be after end_date")
)

// QueryDate parses an optional YYYY-MM-DD query parameter.
func QueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// QueryDateRange reads start_date and end_date.
func QueryDateRange(r *http.Request) (start, end *time.Time, err error) {
	start, err = QueryDate(r, "start_date")
	if err != nil {
		return nil, nil, ErrInvalidStartDate
	}
	end, err = QueryDate(r, "end_date")
	if err != nil {
		return nil, nil, ErrInvalidEndDate
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, ErrInvalidDateRange
	}
	return start, end, nil
}

func QueryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func QueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// QueryString returns nil for an absent or empty parameter.
func QueryString(r *http.Request, key string) *string {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil
	}
	return &raw
}
