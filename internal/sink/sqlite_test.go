package sink

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

func TestSQLiteSink_WritesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")

	s, err := NewSQLiteSink(path, "run-1")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.WritePage(ctx, domain.PageResult{
		PageNumber:  1,
		Translation: "תרגום",
		Status:      domain.PageStatusOK,
	}))
	require.NoError(t, s.WritePage(ctx, domain.PageResult{
		PageNumber: 2,
		Status:     domain.PageStatusFailed,
		RetryCount: 3,
	}))
	require.NoError(t, s.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM pages WHERE run_id = 'run-1'`).Scan(&count))
	assert.Equal(t, 2, count)

	var status string
	var retries int
	require.NoError(t, db.QueryRow(`SELECT status, retry_count FROM pages WHERE page_number = 2`).Scan(&status, &retries))
	assert.Equal(t, "FAILED", status)
	assert.Equal(t, 3, retries)
}

func TestSQLiteSink_DuplicatePageFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.db")

	s, err := NewSQLiteSink(path, "run-1")
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	page := domain.PageResult{PageNumber: 1, Status: domain.PageStatusOK}
	require.NoError(t, s.WritePage(ctx, page))
	// Same run and page number violates the primary key; the sequencer
	// treats this like any other sink error and keeps going.
	assert.Error(t, s.WritePage(ctx, page))
}
