package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/nao1215/nlpreport/internal/model"
	"github.com/spf13/afero"
)

// FilePrefix starts every report file name.
const FilePrefix = "analysis_output_"

// timestampLayout is the second-resolution file name timestamp (YYYYMMDD_HHMMSS).
const timestampLayout = "20060102_150405"

// FileMode is the permission of a finished report file.
const FileMode = 0o644

var (
	// ErrWriteReport is returned when a report file cannot be written.
	ErrWriteReport = errors.New("cannot write report file")

	// ErrReportExists is returned when the target report file already exists.
	ErrReportExists = errors.New("report file already exists")
)

// Path returns the report file path for a report generated at now.
func Path(dir string, format model.ReportFormat, now time.Time) string {
	return filepath.Join(dir, FilePrefix+now.Format(timestampLayout)+"."+format.Extension())
}

// FileWriter persists rendered reports into an output directory.
type FileWriter struct {
	fs  afero.Fs
	now func() time.Time
}

// FileWriterOption configures a FileWriter.
type FileWriterOption func(*FileWriter)

// WithClock replaces the clock used for file name timestamps.
func WithClock(now func() time.Time) FileWriterOption {
	return func(w *FileWriter) {
		w.now = now
	}
}

// NewFileWriter creates a FileWriter on fs.
func NewFileWriter(fs afero.Fs, opts ...FileWriterOption) *FileWriter {
	w := &FileWriter{fs: fs, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteFile renders doc in format into a new timestamped file in dir and
// returns its path. meta.GeneratedAt defaults to the file name timestamp.
//
// Design decision: the report is rendered into a temporary file in dir and
// renamed into place only after it was synced and closed. A report file that
// exists is therefore always complete, and a failed write leaves nothing
// behind. The temporary file is created owner-only, so it is switched to
// FileMode before the rename.
func (w *FileWriter) WriteFile(dir string, format model.ReportFormat, doc *model.Document, meta Metadata, opts ...Option) (string, error) {
	now := w.now()
	if meta.GeneratedAt.IsZero() {
		meta.GeneratedAt = now
	}
	path := Path(dir, format, now)

	if exists, err := afero.Exists(w.fs, path); err != nil {
		return path, fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	} else if exists {
		return path, fmt.Errorf("%w: %s", ErrReportExists, path)
	}

	tmp, err := afero.TempFile(w.fs, dir, "."+FilePrefix+"*.tmp")
	if err != nil {
		return path, fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) (string, error) {
		_ = tmp.Close()
		_ = w.fs.Remove(tmpName)
		return path, fmt.Errorf("%w: %s: %w", ErrWriteReport, path, cause)
	}

	opts = append([]Option{WithMetadata(meta)}, opts...)
	writer, err := New(format, tmp, opts...)
	if err != nil {
		return cleanup(err)
	}
	if _, err := writer.Write(doc); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = w.fs.Remove(tmpName)
		return path, fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}
	if err := w.fs.Chmod(tmpName, FileMode); err != nil {
		_ = w.fs.Remove(tmpName)
		return path, fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}

	if exists, _ := afero.Exists(w.fs, path); exists {
		_ = w.fs.Remove(tmpName)
		return path, fmt.Errorf("%w: %s", ErrReportExists, path)
	}
	if err := w.fs.Rename(tmpName, path); err != nil {
		_ = w.fs.Remove(tmpName)
		return path, fmt.Errorf("%w: %s: %w", ErrWriteReport, path, err)
	}
	return path, nil
}

// Render writes doc in format to out. It is used for printing a report to
// the console instead of a file.
func Render(out io.Writer, format model.ReportFormat, doc *model.Document, opts ...Option) error {
	writer, err := New(format, out, opts...)
	if err != nil {
		return err
	}
	_, err = writer.Write(doc)
	return err
}
