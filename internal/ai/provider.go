package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Params are the decoding parameters passed to the backend. They are
// fixed per deployment, not tunable per request.
type Params struct {
	MaxNewTokens int
	Temperature  float64
	TopK         int
	TopP         float64
}

// DefaultParams mirrors the reference decoding configuration.
func DefaultParams() Params {
	return Params{
		MaxNewTokens: 150,
		Temperature:  0.7,
		TopK:         50,
		TopP:         0.95,
	}
}

// Provider is an opaque text-generation capability. Implementations may
// be remote or locally accelerated; callers bound latency via ctx.
type Provider interface {
	Generate(ctx context.Context, messages []Message, params Params) (string, error)
}
