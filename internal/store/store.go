package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/leadgenius/prospect-cli/internal/model"
)

// ErrNotFound is returned when a batch or preference does not exist.
var ErrNotFound = eris.New("store: not found")

// BatchFilter specifies criteria for listing search batches.
type BatchFilter struct {
	Niche  string `json:"niche,omitempty"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}

// Store defines persistence for search history and UI preferences.
type Store interface {
	// Search history
	SaveBatch(ctx context.Context, params model.SearchParams, leads []model.Lead, sources []model.GroundingSource) (*model.LeadBatch, error)
	GetBatch(ctx context.Context, batchID string) (*model.LeadBatch, error)
	ListBatches(ctx context.Context, filter BatchFilter) ([]model.LeadBatch, error)

	// Preferences (single-value settings keyed by name, e.g. "theme")
	GetPreference(ctx context.Context, key string) (string, error)
	SetPreference(ctx context.Context, key, value string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// PreferenceTheme is the key under which the appearance preference lives.
const PreferenceTheme = "theme"
