package sink

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

func TestCSVSink_WritesHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.csv")

	s, err := NewCSVSink(path, "run-1")
	require.NoError(t, err)

	err = s.WritePage(context.Background(), domain.PageResult{
		PageNumber:   1,
		Translation:  "תרגום העמוד",
		Summary:      "סיכום",
		ChapterTitle: "פרק 1",
		Status:       domain.PageStatusOK,
	})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "run-1", rows[1][0])
	assert.Equal(t, "1", rows[1][1])
	assert.Equal(t, "OK", rows[1][2])
	assert.Equal(t, "פרק 1", rows[1][5])
	assert.Equal(t, "תרגום העמוד", rows[1][8])
}

func TestCSVSink_AppendsWithoutDuplicateHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.csv")

	s1, err := NewCSVSink(path, "run-1")
	require.NoError(t, err)
	require.NoError(t, s1.WritePage(context.Background(), domain.PageResult{PageNumber: 1, Status: domain.PageStatusOK}))
	require.NoError(t, s1.Close())

	s2, err := NewCSVSink(path, "run-2")
	require.NoError(t, err)
	require.NoError(t, s2.WritePage(context.Background(), domain.PageResult{PageNumber: 1, Status: domain.PageStatusFailed}))
	require.NoError(t, s2.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 3)
	assert.Equal(t, "run-1", rows[1][0])
	assert.Equal(t, "run-2", rows[2][0])
	assert.Equal(t, "FAILED", rows[2][2])
}

func TestFileSink_WritesVerbatim(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	s, err := NewFileSink(dir)
	require.NoError(t, err)

	text := "שורה ראשונה\n\nשורה שנייה"
	require.NoError(t, s.WriteText("translation_test.txt", text))

	data, err := os.ReadFile(filepath.Join(dir, "translation_test.txt"))
	require.NoError(t, err)
	assert.Equal(t, text, string(data))
}
