package maps

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		lat, lng float64
		wantQ    string
		wantZoom string
		wantLang string
	}{
		{
			name:     "defaults",
			lat:      -23.5505,
			lng:      -46.6333,
			wantQ:    "-23.5505,-46.6333",
			wantZoom: "15",
			wantLang: "pt",
		},
		{
			name:     "custom_zoom_and_locale",
			opts:     []Option{WithZoom(12), WithLocale("en-US")},
			lat:      40.7128,
			lng:      -74.006,
			wantQ:    "40.7128,-74.006",
			wantZoom: "12",
			wantLang: "en-US",
		},
		{
			name:     "invalid_locale_keeps_default",
			opts:     []Option{WithLocale("not a tag")},
			lat:      0,
			lng:      0,
			wantQ:    "0,0",
			wantZoom: "15",
			wantLang: "pt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder("embed-key", tt.opts...)

			parsed, err := url.Parse(b.EmbedURL(tt.lat, tt.lng))
			require.NoError(t, err)

			assert.Equal(t, "www.google.com", parsed.Host)
			assert.Equal(t, "/maps/embed/v1/place", parsed.Path)

			q := parsed.Query()
			assert.Equal(t, "embed-key", q.Get("key"))
			assert.Equal(t, tt.wantQ, q.Get("q"))
			assert.Equal(t, tt.wantZoom, q.Get("zoom"))
			assert.Equal(t, tt.wantLang, q.Get("language"))
		})
	}
}

func TestFullURL(t *testing.T) {
	b := NewBuilder("ignored")

	parsed, err := url.Parse(b.FullURL(-23.5505, -46.6333))
	require.NoError(t, err)

	assert.Equal(t, "/maps/search/", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "1", q.Get("api"))
	assert.Equal(t, "-23.5505,-46.6333", q.Get("query"))
	assert.Empty(t, q.Get("key"), "full map link must not leak the API key")
}
