package translate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

func TestBuildTranslationPrompt(t *testing.T) {
	prompt := buildTranslationPrompt(7, "", "")

	assert.Contains(t, prompt, "page 7")
	for _, field := range []string{"translation", "summary", "articleTitle", "chapterTitle", "sectionTitle"} {
		assert.Contains(t, prompt, field)
	}
	assert.NotContains(t, prompt, "previous page's translation")
	assert.NotContains(t, prompt, "belongs to this part")
}

func TestBuildTranslationPrompt_WithContexts(t *testing.T) {
	prompt := buildTranslationPrompt(3, "סוף העמוד הקודם", "פרק 2 > מבוא")

	assert.Contains(t, prompt, "סוף העמוד הקודם")
	assert.Contains(t, prompt, "פרק 2 > מבוא")
	assert.True(t, strings.Index(prompt, "belongs to this part") < strings.Index(prompt, "ended with the text below"))
}

func TestBuildChunkSummaryPrompt(t *testing.T) {
	chunk := domain.Chunk{
		Title: "פרק 1 > רקע",
		Text:  "תוכן הפרק המלא",
		Pages: []int{4, 5, 6},
	}

	prompt := buildChunkSummaryPrompt(1, 5, chunk)

	assert.Contains(t, prompt, "part 2 of 5")
	assert.Contains(t, prompt, "פרק 1 > רקע")
	assert.Contains(t, prompt, "Pages: 4-6")
	assert.Contains(t, prompt, "תוכן הפרק המלא")
	assert.Contains(t, prompt, "15-20 sentences")
	assert.Contains(t, prompt, "PLAIN TEXT")
}

func TestParsePagePayload(t *testing.T) {
	raw := "```json\n" + `{
		"translation": "זהו התרגום המלא של העמוד הראשון",
		"summary": "סיכום קצר של תוכן העמוד הזה",
		"articleTitle": "כותרת",
		"chapterTitle": "פרק 1",
		"sectionTitle": ""
	}` + "\n```"

	payload, err := parsePagePayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "זהו התרגום המלא של העמוד הראשון", payload.Translation)
	assert.Equal(t, "פרק 1", payload.ChapterTitle)
	assert.Equal(t, "", payload.SectionTitle)
}

func TestParsePagePayload_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json", "Sorry, here is some prose with no object."},
		{"short translation", `{"translation": "קצר", "summary": "סיכום ארוך מספיק לבדיקה"}`},
		{"refusal in summary", `{"translation": "תרגום ארוך ותקין של העמוד", "summary": "I am unable to summarize this"}`},
		{"broken json", `{"translation": "abc`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parsePagePayload(tt.raw)
			assert.Error(t, err)
		})
	}
}
