package sink

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

const pagesSchema = `
CREATE TABLE IF NOT EXISTS pages (
	run_id        TEXT NOT NULL,
	page_number   INTEGER NOT NULL,
	status        TEXT NOT NULL,
	retry_count   INTEGER NOT NULL,
	article_title TEXT,
	chapter_title TEXT,
	section_title TEXT,
	summary       TEXT,
	translation   TEXT,
	created_at    TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (run_id, page_number)
);
`

// SQLiteSink appends one row per translated page to a local SQLite
// database, keyed by run so repeated runs over the same document coexist.
type SQLiteSink struct {
	runID string
	db    *sql.DB
}

// NewSQLiteSink opens the database and ensures the pages table exists.
func NewSQLiteSink(path, runID string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("cannot open SQLite database %s", path), err)
	}
	if _, err := db.Exec(pagesSchema); err != nil {
		db.Close()
		return nil, domain.IOError("cannot create pages table", err)
	}
	return &SQLiteSink{runID: runID, db: db}, nil
}

func (s *SQLiteSink) Name() string { return "sqlite" }

// WritePage inserts one page row.
func (s *SQLiteSink) WritePage(ctx context.Context, page domain.PageResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pages (run_id, page_number, status, retry_count, article_title, chapter_title, section_title, summary, translation)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.runID, page.PageNumber, string(page.Status), page.RetryCount,
		page.ArticleTitle, page.ChapterTitle, page.SectionTitle, page.Summary, page.Translation,
	)
	if err != nil {
		return domain.IOError(fmt.Sprintf("cannot insert page %d", page.PageNumber), err)
	}
	return nil
}

// Close closes the database handle.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
