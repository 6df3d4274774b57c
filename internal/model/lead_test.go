package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCoordinates(t *testing.T) {
	lat := -23.5505
	lng := -46.6333

	tests := []struct {
		name string
		lead Lead
		want bool
	}{
		{name: "both_present", lead: Lead{Latitude: &lat, Longitude: &lng}, want: true},
		{name: "latitude_only", lead: Lead{Latitude: &lat}, want: false},
		{name: "longitude_only", lead: Lead{Longitude: &lng}, want: false},
		{name: "neither", lead: Lead{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.lead.HasCoordinates())
		})
	}
}
