package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected Page
		err      error
	}{
		{name: "defaults", query: "", expected: Page{Skip: 0, Limit: DefaultLimit}},
		{name: "explicit", query: "?skip=20&limit=10", expected: Page{Skip: 20, Limit: 10}},
		{name: "max limit", query: "?limit=500", expected: Page{Skip: 0, Limit: 500}},
		{name: "negative skip", query: "?skip=-1", err: ErrInvalidSkip},
		{name: "non numeric skip", query: "?skip=abc", err: ErrInvalidSkip},
		{name: "zero limit", query: "?limit=0", err: ErrInvalidLimit},
		{name: "limit above max", query: "?limit=501", err: ErrInvalidLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := FromRequest(httptest.NewRequest(http.MethodGet, "/expenses"+tt.query, nil))
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, page)
		})
	}
}
