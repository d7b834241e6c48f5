package annotate

import (
	"context"

	"github.com/nao1215/nlpreport/internal/model"
)

// Engine annotates raw text.
// Implementations must return a document whose sentences are in text order.
type Engine interface {
	// Annotate runs the configured stages on text.
	Annotate(ctx context.Context, text string, stages StageConfig) (*model.Document, error)
}

// EngineFunc adapts an ordinary function to the Engine interface.
type EngineFunc func(ctx context.Context, text string, stages StageConfig) (*model.Document, error)

// Annotate calls f(ctx, text, stages).
func (f EngineFunc) Annotate(ctx context.Context, text string, stages StageConfig) (*model.Document, error) {
	return f(ctx, text, stages)
}
