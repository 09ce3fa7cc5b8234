package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

var csvHeader = []string{"run_id", "page", "status", "retries", "article_title", "chapter_title", "section_title", "summary", "translation"}

// CSVSink appends one row per translated page to a CSV file. Writes are
// flushed per page so a crashed run still leaves the rows written so far.
type CSVSink struct {
	mu     sync.Mutex
	runID  string
	file   *os.File
	writer *csv.Writer
}

// NewCSVSink opens (or creates) the CSV file and writes the header when the
// file is new.
func NewCSVSink(path, runID string) (*CSVSink, error) {
	info, err := os.Stat(path)
	isNew := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("cannot open CSV file %s", path), err)
	}

	writer := csv.NewWriter(file)
	if isNew {
		if err := writer.Write(csvHeader); err != nil {
			file.Close()
			return nil, domain.IOError("cannot write CSV header", err)
		}
		writer.Flush()
	}

	return &CSVSink{runID: runID, file: file, writer: writer}, nil
}

func (s *CSVSink) Name() string { return "csv" }

// WritePage appends one page row and flushes.
func (s *CSVSink) WritePage(_ context.Context, page domain.PageResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := []string{
		s.runID,
		strconv.Itoa(page.PageNumber),
		string(page.Status),
		strconv.Itoa(page.RetryCount),
		page.ArticleTitle,
		page.ChapterTitle,
		page.SectionTitle,
		page.Summary,
		page.Translation,
	}
	if err := s.writer.Write(row); err != nil {
		return domain.IOError("cannot write CSV row", err)
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes and closes the underlying file.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer.Flush()
	return s.file.Close()
}
