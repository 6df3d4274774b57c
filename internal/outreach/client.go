package outreach

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/leadgenius/prospect-cli/internal/model"
)

// Fallback strings returned instead of errors. Outreach text is an
// enhancement, not a critical path, so failures never propagate upward.
const (
	FallbackEmpty = "Não foi possível gerar a estratégia."
	FallbackError = "Erro ao gerar estratégia personalizada."
)

// TextGenerator produces free-form text for a prompt. Both the Gemini and
// Anthropic providers are adapted to this interface in the composition root.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Client requests personalized outreach strategies from the AI service.
type Client struct {
	gen TextGenerator
}

// New creates an outreach client over a text generator.
func New(gen TextGenerator) *Client {
	return &Client{gen: gen}
}

// buildPrompt renders the outreach instruction for a lead. Contact fields
// and the coordinate pair are embedded only when present, and the service is
// told to personalize with whichever of them were supplied.
func buildPrompt(lead model.Lead) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `Crie uma estratégia de abordagem (outreach) personalizada para o seguinte lead:
Empresa: %s
Indústria: %s
Descrição: %s
Site: %s
`, lead.Name, lead.Industry, lead.Description, lead.Website)

	if lead.Email != "" {
		fmt.Fprintf(&sb, "E-mail: %s\n", lead.Email)
	}
	if lead.Phone != "" {
		fmt.Fprintf(&sb, "Telefone: %s\n", lead.Phone)
	}
	if lead.HasCoordinates() {
		fmt.Fprintf(&sb, "Coordenadas: %g, %g\n", *lead.Latitude, *lead.Longitude)
	}

	sb.WriteString("\nA estratégia deve incluir um script de e-mail frio curto e um gancho para LinkedIn, incorporando os dados de contato disponíveis para personalização.")
	return sb.String()
}

// Analyze asks the service for an outreach strategy. It never fails: any
// error, and any empty reply, resolves to a fixed fallback string.
func (c *Client) Analyze(ctx context.Context, lead model.Lead) string {
	text, err := c.gen.GenerateText(ctx, buildPrompt(lead))
	if err != nil {
		zap.L().Warn("outreach generation failed, using fallback",
			zap.String("lead_id", lead.ID),
			zap.String("lead_name", lead.Name),
			zap.Error(err),
		)
		return FallbackError
	}
	if strings.TrimSpace(text) == "" {
		return FallbackEmpty
	}
	return text
}
