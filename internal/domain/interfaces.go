package domain

import "context"

// Converter defines the interface for rendering PDF pages to images
type Converter interface {
	// Convert turns a PDF into an ordered slice of page images, 1..N.
	// Rendering fails atomically: either every page renders or an error
	// is returned with no partial sequence.
	Convert(ctx context.Context, pdfPath string, quality int) ([]PageImage, error)

	// Cleanup removes temporary files created during conversion
	Cleanup() error
}

// PageSink receives one PageResult per translated page. Sinks are
// best-effort: the sequencer logs their errors and keeps going.
type PageSink interface {
	Name() string
	WritePage(ctx context.Context, page PageResult) error
}

// TextSink persists a finished text blob verbatim, UTF-8. At least one
// text sink (local file) is always wired.
type TextSink interface {
	WriteText(name string, text string) error
}
