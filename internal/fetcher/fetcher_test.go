package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "plain https",
			raw:  "https://www.olx.in/items/q-car-cover",
			want: "https://www.olx.in/items/q-car-cover",
		},
		{
			name: "http with query",
			raw:  "http://example.com/search?q=car+cover&page=1",
			want: "http://example.com/search?q=car+cover&page=1",
		},
		{
			name:    "not a url",
			raw:     "not-a-url",
			wantErr: true,
		},
		{
			name:    "missing scheme",
			raw:     "www.olx.in/items/q-car-cover",
			wantErr: true,
		},
		{
			name:    "unsupported scheme",
			raw:     "ftp://example.com/listings",
			wantErr: true,
		},
		{
			name:    "scheme only",
			raw:     "https://",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageTitle(t *testing.T) {
	html := `<html><head><title> Car Covers in Mumbai </title></head><body></body></html>`
	assert.Equal(t, "Car Covers in Mumbai", pageTitle(html))

	assert.Equal(t, "", pageTitle("<html><body>no title</body></html>"))
}
