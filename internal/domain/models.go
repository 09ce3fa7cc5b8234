package domain

import "time"

// PageStatus marks the terminal outcome of one page's translation.
type PageStatus string

const (
	PageStatusOK     PageStatus = "OK"
	PageStatusFailed PageStatus = "FAILED"
)

// Document represents the source PDF file being processed
type Document struct {
	FilePath   string
	TotalPages int
}

// PageImage represents a single rendered PDF page
type PageImage struct {
	PageNumber int
	ImagePath  string // Path to temporary JPG file
	Width      int
	Height     int
}

// PageResult is the outcome of translating one page. Results are produced
// strictly in ascending PageNumber order and are never mutated after the
// sequencer returns them. FAILED pages keep their slot in the ordered list
// but contribute nothing to assembly or chunking.
type PageResult struct {
	PageNumber   int        `json:"page_number"`
	Translation  string     `json:"translation"`
	Summary      string     `json:"summary"`
	ArticleTitle string     `json:"article_title"`
	ChapterTitle string     `json:"chapter_title"` // empty means no heading detected, not "same as previous"
	SectionTitle string     `json:"section_title"`
	Status       PageStatus `json:"status"`
	RetryCount   int        `json:"retry_count"` // attempts beyond the first, diagnostics only
}

// OK reports whether the page translated successfully.
func (p PageResult) OK() bool {
	return p.Status == PageStatusOK
}

// Chunk is a contiguous run of OK pages sharing one structural label, the
// unit of summarization. Pages is never empty; its first and last entries
// define the chunk's page range.
type Chunk struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Pages []int  `json:"pages"`
}

// FirstPage returns the first page number in the chunk.
func (c Chunk) FirstPage() int { return c.Pages[0] }

// LastPage returns the last page number in the chunk.
func (c Chunk) LastPage() int { return c.Pages[len(c.Pages)-1] }

// ChunkSummary pairs a chunk's identity with its long-form Hebrew summary.
type ChunkSummary struct {
	Title     string `json:"title"`
	FirstPage int    `json:"first_page"`
	LastPage  int    `json:"last_page"`
	Summary   string `json:"summary"`
}

// ProcessingStats contains metadata about a pipeline run
type ProcessingStats struct {
	TotalTime       time.Duration
	PagesProcessed  int
	SuccessfulPages int
	FailedPages     int
	Chunks          int
}
