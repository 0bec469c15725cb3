package model

import (
	"context"

	"google.golang.org/genai"
)

// OutputPart is one ordered piece of model output: either text or inline binary.
type OutputPart struct {
	Text     string
	Data     []byte
	MIMEType string
}

// Inline reports whether the part carries binary data rather than text.
func (p OutputPart) Inline() bool {
	return len(p.Data) > 0
}

// GenerateOptions is the feature-specific generation configuration.
type GenerateOptions struct {
	Model             string
	SystemInstruction string
	Search            bool
	Modalities        []string
}

// Generator produces ordered output parts for a conversation history.
type Generator interface {
	Generate(ctx context.Context, history []*genai.Content, opts GenerateOptions) ([]OutputPart, error)
}

// EmitOptions controls how text parts are delivered.
type EmitOptions struct {
	// AsText sends text parts verbatim instead of rendering them to images.
	AsText bool
	// Width is the markdown render width; zero means the renderer default.
	Width int
}

// Emission summarizes what an Emit call delivered.
type Emission struct {
	// LastMessageID is the platform id of the last emitted message. It is the
	// anchor the next continuation reply must target.
	LastMessageID string
	// LastText is the last non-empty text part observed, in response order.
	LastText string
}

// Emitter delivers output parts to the user and reports the resulting anchor.
type Emitter interface {
	Emit(ctx context.Context, parts []OutputPart, opts EmitOptions) (Emission, error)
	// EmitError surfaces a failure to the user as a rendered diagnostic artifact.
	EmitError(ctx context.Context, cause error) error
}
