package gemini

import (
	"google.golang.org/genai"

	"github.com/couchcryptid/sharda-atlas/internal/domain"
)

// regionRecordSchema mirrors domain.RegionRecord for schema-constrained decoding.
func regionRecordSchema() *genai.Schema {
	text := func() *genai.Schema { return &genai.Schema{Type: genai.TypeString} }
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			domain.FieldCapital:    text(),
			domain.FieldPopulation: text(),
			domain.FieldArea:       text(),
			domain.FieldLanguages:  text(),
			domain.FieldHistory:    text(),
			domain.FieldCulture:    text(),
			domain.FieldMainImage:  text(),
			domain.FieldHighlights: {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":  text(),
						"image": text(),
					},
					Required: []string{"name", "image"},
				},
			},
		},
		Required: []string{
			domain.FieldCapital,
			domain.FieldPopulation,
			domain.FieldArea,
			domain.FieldLanguages,
			domain.FieldHistory,
			domain.FieldCulture,
			domain.FieldMainImage,
			domain.FieldHighlights,
		},
	}
}
