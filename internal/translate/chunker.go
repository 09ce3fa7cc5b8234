package translate

import (
	"unicode/utf8"

	"github.com/hebdoc/pdf-translator/internal/domain"
)

// BuildChunks groups the OK pages into contiguous, title-coherent chunks of
// at most maxChars characters. A chunk closes when the active structural
// label changes or when adding the next page would cross the size limit; an
// empty open chunk is never closed, so a single page longer than maxChars
// still forms a (one-page, oversized) chunk.
func BuildChunks(results []domain.PageResult, maxChars int) []domain.Chunk {
	var chunks []domain.Chunk

	var open domain.Chunk
	titleSet := false
	currentChapter := ""
	currentSection := ""

	for _, r := range results {
		if !r.OK() {
			continue
		}

		// Both may update on the same page; a new chapter resets the
		// section first.
		if r.ChapterTitle != "" {
			currentChapter = r.ChapterTitle
			currentSection = ""
		}
		if r.SectionTitle != "" {
			currentSection = r.SectionTitle
		}

		title := contentTitle(currentChapter, currentSection)

		if open.Text != "" {
			titleChanged := titleSet && open.Title != title
			wouldOverflow := utf8.RuneCountInString(open.Text)+utf8.RuneCountInString(r.Translation) > maxChars
			if titleChanged || wouldOverflow {
				chunks = append(chunks, open)
				open = domain.Chunk{Title: title}
				titleSet = true
			}
		}

		if !titleSet {
			open.Title = title
			titleSet = true
		}

		if open.Text != "" {
			open.Text += "\n\n"
		}
		open.Text += r.Translation
		open.Pages = append(open.Pages, r.PageNumber)
	}

	if open.Text != "" {
		chunks = append(chunks, open)
	}

	return chunks
}

// contentTitle derives the structural label for the chunk being built.
// Unlike the sequencer's backward scan, a standalone section title is used
// when no chapter is active.
func contentTitle(chapter, section string) string {
	switch {
	case chapter != "" && section != "":
		return chapter + " > " + section
	case chapter != "":
		return chapter
	case section != "":
		return section
	default:
		return fallbackChunkTitle
	}
}
