package input

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrUnsupportedFormat is returned for file extensions without a loader.
	ErrUnsupportedFormat = errors.New("unsupported input format")

	// ErrEmptyDocument is returned when a document contains no text.
	ErrEmptyDocument = errors.New("document contains no text")
)

// Loader extracts plain text from a document.
type Loader interface {
	Load(r io.Reader) (string, error)
}

// supportedExtensions maps file extensions to loaders.
var supportedExtensions = map[string]func() Loader{
	".txt":      func() Loader { return &TextLoader{} },
	".text":     func() Loader { return &TextLoader{} },
	".md":       func() Loader { return &MarkdownLoader{} },
	".markdown": func() Loader { return &MarkdownLoader{} },
	".html":     func() Loader { return &HTMLLoader{} },
	".htm":      func() Loader { return &HTMLLoader{} },
	".pdf":      func() Loader { return &PDFLoader{} },
	".docx":     func() Loader { return &DOCXLoader{} },
}

// ForFile returns the loader for a file name, chosen by extension.
func ForFile(name string) (Loader, error) {
	ext := strings.ToLower(filepath.Ext(name))
	newLoader, ok := supportedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return newLoader(), nil
}

// IsSupported reports whether name has a supported extension.
func IsSupported(name string) bool {
	_, err := ForFile(name)
	return err == nil
}

// Load reads the document at path from fs and returns its normalized text.
func Load(fs afero.Fs, path string) (string, error) {
	loader, err := ForFile(path)
	if err != nil {
		return "", err
	}

	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open input %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // read-only

	raw, err := loader.Load(f)
	if err != nil {
		return "", fmt.Errorf("read input %s: %w", path, err)
	}

	text := Normalize(raw)
	if text == "" {
		return "", fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}
	return text, nil
}

// Normalize converts s to NFC, unifies line endings, trims every line and
// collapses runs of blank lines into one.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
