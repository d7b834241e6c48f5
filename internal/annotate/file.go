package annotate

import (
	"context"
	"fmt"

	"github.com/nao1215/nlpreport/internal/model"
	"github.com/spf13/afero"
)

// FileEngine replays a CoreNLP JSON document saved from an earlier server
// response (for example with curl --data @text.txt 'localhost:9000/?properties=...').
// The stage configuration is validated but otherwise has no effect: the saved
// document already contains whatever the server produced.
type FileEngine struct {
	fs   afero.Fs
	path string
}

// NewFileEngine creates an engine that reads the document at path from fs.
func NewFileEngine(fs afero.Fs, path string) *FileEngine {
	return &FileEngine{fs: fs, path: path}
}

// Path returns the path of the saved document.
func (e *FileEngine) Path() string {
	return e.path
}

// Annotate decodes the saved document. When text is empty the document text
// is rebuilt from the saved tokens.
func (e *FileEngine) Annotate(ctx context.Context, text string, stages StageConfig) (*model.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := stages.Validate(); err != nil {
		return nil, err
	}

	f, err := e.fs.Open(e.path)
	if err != nil {
		return nil, fmt.Errorf("open saved annotation %s: %w", e.path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	doc, err := DecodeDocument(f, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.path, err)
	}
	return doc, nil
}
