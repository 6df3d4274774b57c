package prospect

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadgenius/prospect-cli/internal/model"
	"github.com/leadgenius/prospect-cli/pkg/gemini"
)

// Result is one prospecting batch: the normalized leads and the grounding
// sources the service cited while producing them. The two always travel
// together; the controller applies them as a single transition.
type Result struct {
	Leads   []model.Lead            `json:"leads"`
	Sources []model.GroundingSource `json:"sources"`
}

// Client requests lead batches from the generative AI service.
type Client struct {
	gemini gemini.Client
	now    func() time.Time
}

// New creates a prospecting client on top of a Gemini client.
func New(g gemini.Client) *Client {
	return &Client{gemini: g, now: time.Now}
}

// wireLead is the shape of one lead as declared in the response schema.
// IDs are deliberately absent: they are assigned locally at ingestion.
type wireLead struct {
	Name               string   `json:"name"`
	Industry           string   `json:"industry"`
	Website            string   `json:"website"`
	Description        string   `json:"description"`
	PotentialScore     float64  `json:"potentialScore"`
	ContactSuggestions []string `json:"contactSuggestions"`
	Location           string   `json:"location"`
	Email              string   `json:"email,omitempty"`
	Phone              string   `json:"phone,omitempty"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
}

type wirePayload struct {
	Leads []wireLead `json:"leads"`
}

// Prospect runs one search against the service. Niche validation is the
// caller's responsibility. Transport and remote errors propagate; a payload
// that fails to parse degrades to an empty batch instead.
func (c *Client) Prospect(ctx context.Context, params model.SearchParams) (*Result, error) {
	req := gemini.GenerateRequest{
		Contents: []gemini.Content{
			{Role: "user", Parts: []gemini.Part{{Text: buildPrompt(params)}}},
		},
		Tools: []gemini.Tool{
			{GoogleSearch: &gemini.GoogleSearch{}},
		},
		GenerationConfig: &gemini.GenerationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   responseSchema(),
		},
	}

	resp, err := c.gemini.GenerateContent(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "prospect: generate")
	}

	var payload wirePayload
	if err := json.Unmarshal([]byte(resp.Text()), &payload); err != nil {
		// An unparseable structured reply yields an empty batch, not an
		// error. Network failures surface loudly; garbled content does not.
		zap.L().Warn("prospect: unparseable structured payload, returning empty batch",
			zap.String("niche", params.Niche),
			zap.Error(err),
		)
		return &Result{Leads: []model.Lead{}, Sources: []model.GroundingSource{}}, nil
	}

	batchStamp := c.now().UnixMilli()
	leads := make([]model.Lead, 0, len(payload.Leads))
	for i, wl := range payload.Leads {
		lead := model.Lead{
			ID:                 fmt.Sprintf("lead-%d-%d", batchStamp, i),
			Name:               wl.Name,
			Industry:           wl.Industry,
			Website:            wl.Website,
			Description:        wl.Description,
			PotentialScore:     wl.PotentialScore,
			ContactSuggestions: wl.ContactSuggestions,
			Location:           wl.Location,
			Email:              wl.Email,
			Phone:              wl.Phone,
		}
		// The coordinate pair is atomic: keep both or neither.
		if wl.Latitude != nil && wl.Longitude != nil {
			lead.Latitude = wl.Latitude
			lead.Longitude = wl.Longitude
		}
		leads = append(leads, lead)
	}

	sources := make([]model.GroundingSource, 0)
	for _, ws := range resp.GroundingSources() {
		sources = append(sources, model.GroundingSource{Title: ws.Title, URI: ws.URI})
	}

	zap.L().Info("prospect batch received",
		zap.String("niche", params.Niche),
		zap.String("location", params.Location),
		zap.Int("leads", len(leads)),
		zap.Int("sources", len(sources)),
		zap.Int("total_tokens", resp.Usage.TotalTokenCount),
	)

	return &Result{Leads: leads, Sources: sources}, nil
}
