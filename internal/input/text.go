package input

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// TextLoader reads plain UTF-8 text. A leading byte order mark is honored,
// so UTF-16 files written by Windows editors decode as well.
type TextLoader struct{}

// Load implements Loader.
func (l *TextLoader) Load(r io.Reader) (string, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, decoder))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
