package prospect

import (
	"fmt"

	"github.com/leadgenius/prospect-cli/internal/model"
)

// batchSize is the number of candidate companies requested per search.
const batchSize = 20

// buildPrompt renders the prospecting instruction for a set of search
// parameters. The prompt is Portuguese because the product's audience is;
// the service follows the instruction language when drafting descriptions.
func buildPrompt(params model.SearchParams) string {
	prompt := fmt.Sprintf(`Atue como um especialista em prospecção de vendas B2B.
Encontre %d empresas reais que se encaixam neste critério:
Nicho: %s
Localização: %s
Objetivo: Identificar leads qualificados para expansão de negócios.

Para cada empresa, forneça:
- Nome completo
- Setor/Indústria
- URL do Website
- Uma breve descrição do que fazem
- Pontuação de potencial (0-100) baseada no fit de mercado
- Sugestões de como abordá-los
- Localização exata (ex: "São Paulo, Brasil") e também a latitude e longitude precisas como números.
- Se disponíveis publicamente, inclua o e-mail de contato e o número de telefone principal da empresa (apenas números e e-mails reais, não fictícios).`,
		batchSize, params.Niche, params.Location)

	if params.CompanySize != "" {
		prompt += fmt.Sprintf("\nPorte das empresas: %s", params.CompanySize)
	}
	if params.Intent != "" {
		prompt += fmt.Sprintf("\nIntenção da busca: %s", params.Intent)
	}
	return prompt
}

// responseSchema is the structured-output schema declared to the service:
// an object with a required "leads" array. Optional contact and coordinate
// fields are listed but not required, mirroring the Lead model.
func responseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"leads": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"name":           map[string]any{"type": "string"},
						"industry":       map[string]any{"type": "string"},
						"website":        map[string]any{"type": "string"},
						"description":    map[string]any{"type": "string"},
						"potentialScore": map[string]any{"type": "number"},
						"contactSuggestions": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"location":  map[string]any{"type": "string"},
						"email":     map[string]any{"type": "string"},
						"phone":     map[string]any{"type": "string"},
						"latitude":  map[string]any{"type": "number"},
						"longitude": map[string]any{"type": "number"},
					},
					"required": []string{
						"name", "industry", "website", "description",
						"potentialScore", "contactSuggestions", "location",
					},
				},
			},
		},
		"required": []string{"leads"},
	}
}
