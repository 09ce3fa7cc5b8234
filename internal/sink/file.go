// Package sink provides output adapters for finished results: a durable
// text-file sink for the assembled documents and best-effort per-page row
// sinks (CSV, SQLite).
package sink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

// FileSink writes named text blobs verbatim, UTF-8, into a directory.
type FileSink struct {
	dir string
}

// NewFileSink creates the directory if needed and returns the sink.
func NewFileSink(dir string) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, domain.IOError(fmt.Sprintf("cannot create output directory %s", dir), err)
	}
	return &FileSink{dir: dir}, nil
}

// WriteText persists one text blob under the given name.
func (s *FileSink) WriteText(name, text string) error {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return domain.IOError(fmt.Sprintf("cannot write %s", path), err)
	}
	return nil
}

// Path returns the full path a named blob would be written to.
func (s *FileSink) Path(name string) string {
	return filepath.Join(s.dir, name)
}
