// Package maps builds links into the external map provider for leads that
// carry a full coordinate pair. Callers are responsible for gating on the
// pair being complete; this package only formats URLs.
package maps

import (
	"fmt"
	"net/url"

	"golang.org/x/text/language"
)

const (
	embedBaseURL  = "https://www.google.com/maps/embed/v1/place"
	searchBaseURL = "https://www.google.com/maps/search/"

	defaultZoom = 15
)

// Builder constructs map-provider URLs for a given API key and locale.
type Builder struct {
	apiKey string
	locale language.Tag
	zoom   int
}

// Option configures a Builder.
type Option func(*Builder)

// WithZoom overrides the default embed zoom level.
func WithZoom(zoom int) Option {
	return func(b *Builder) {
		b.zoom = zoom
	}
}

// WithLocale sets the embed language. Invalid tags fall back to Portuguese,
// matching the locale of the UI this backend serves.
func WithLocale(tag string) Option {
	return func(b *Builder) {
		parsed, err := language.Parse(tag)
		if err != nil {
			return
		}
		b.locale = parsed
	}
}

// NewBuilder creates a Builder for the given map-provider API key.
func NewBuilder(apiKey string, opts ...Option) *Builder {
	b := &Builder{
		apiKey: apiKey,
		locale: language.Portuguese,
		zoom:   defaultZoom,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// EmbedURL returns the iframe embed URL for a coordinate pair.
func (b *Builder) EmbedURL(lat, lng float64) string {
	q := url.Values{}
	q.Set("key", b.apiKey)
	q.Set("q", fmt.Sprintf("%g,%g", lat, lng))
	q.Set("zoom", fmt.Sprintf("%d", b.zoom))
	q.Set("language", b.locale.String())
	return embedBaseURL + "?" + q.Encode()
}

// FullURL returns the link to the full map view for a coordinate pair.
func (b *Builder) FullURL(lat, lng float64) string {
	q := url.Values{}
	q.Set("api", "1")
	q.Set("query", fmt.Sprintf("%g,%g", lat, lng))
	return searchBaseURL + "?" + q.Encode()
}
