package domain

import "context"

// GenerationParams are the sampling controls sent with one prompt.
type GenerationParams struct {
	Temperature     float64
	MaxOutputTokens int

	// Structured asks the generator to constrain output to the RegionRecord
	// JSON schema when it supports schema-constrained decoding.
	Structured bool

	// Fallback replaces the generator's default text for an empty response.
	Fallback string
}

// Generator turns a prompt into raw model text. Implementations must wrap
// failures in ErrGeneration and must not retry.
type Generator interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// RecordStore is the memoization cache for validated records, keyed by the
// exact region name.
type RecordStore interface {
	Get(ctx context.Context, name string) (RegionRecord, bool, error)
	Set(ctx context.Context, name string, record RegionRecord) error
	Has(ctx context.Context, name string) (bool, error)
}

// AttachmentGenerator is a Generator that can also send one inline file with
// the prompt.
type AttachmentGenerator interface {
	Generator
	GenerateWithAttachment(ctx context.Context, prompt string, attachment *Attachment, params GenerationParams) (string, error)
}
