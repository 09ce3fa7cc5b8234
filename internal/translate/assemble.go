package translate

import (
	"fmt"
	"strings"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

const headingRuleWidth = 60

func headingRule() string {
	return strings.Repeat("=", headingRuleWidth)
}

// AssembleDocument renders the ordered page results into one continuous
// translation. Chapter and section headings are emitted only when they
// change; a chapter change resets the tracked section so a same-named
// section under a new chapter is re-announced. FAILED pages leave no trace.
func AssembleDocument(results []domain.PageResult) string {
	var b strings.Builder
	lastChapter := ""
	lastSection := ""

	for _, r := range results {
		if !r.OK() {
			continue
		}

		if r.ChapterTitle != "" && r.ChapterTitle != lastChapter {
			b.WriteString("\n")
			b.WriteString(headingRule())
			b.WriteString("\n")
			b.WriteString(r.ChapterTitle)
			b.WriteString("\n")
			b.WriteString(headingRule())
			b.WriteString("\n\n")
			lastChapter = r.ChapterTitle
			lastSection = ""
		}

		if r.SectionTitle != "" && r.SectionTitle != lastSection {
			b.WriteString(fmt.Sprintf("--- %s ---\n\n", r.SectionTitle))
			lastSection = r.SectionTitle
		}

		b.WriteString(r.Translation)
		b.WriteString("\n\n")
	}

	return strings.TrimSpace(b.String())
}

// AssembleSummary renders the chunk summaries into one continuous text:
// each chunk gets a heading block with its title and Hebrew page-range
// annotation, followed by its summary.
func AssembleSummary(summaries []domain.ChunkSummary) string {
	var b strings.Builder

	for _, s := range summaries {
		b.WriteString(headingRule())
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf("%s (עמודים %d-%d)", s.Title, s.FirstPage, s.LastPage))
		b.WriteString("\n")
		b.WriteString(headingRule())
		b.WriteString("\n\n")
		b.WriteString(s.Summary)
		b.WriteString("\n\n")
	}

	return strings.TrimSpace(b.String())
}
