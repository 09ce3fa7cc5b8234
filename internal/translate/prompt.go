// Package translate implements the page-sequencing and chunk-assembly
// pipeline: per-page translation requests with carried-forward context,
// retry/validation of model responses, chunking of translated pages, and
// assembly of the final translation and summary documents.
package translate

import (
	"encoding/json"
	"fmt"

	"github.com/hebdoc/pdf-translator/internal/domain"
	"github.com/hebdoc/pdf-translator/internal/llm"
)

// fallbackChunkTitle labels chunks opened while no chapter or section is
// active.
const fallbackChunkTitle = "תוכן כללי"

// pagePayload is the JSON object the model must return for a page request.
// chapterTitle and sectionTitle may be empty strings; empty means no heading
// was detected on the page.
type pagePayload struct {
	Translation  string `json:"translation"`
	Summary      string `json:"summary"`
	ArticleTitle string `json:"articleTitle"`
	ChapterTitle string `json:"chapterTitle"`
	SectionTitle string `json:"sectionTitle"`
}

// buildTranslationPrompt creates the per-page translation instruction.
// previousContext is the tail of the preceding page's translation (may be
// empty); chapterContext is the currently active chapter/section label (may
// be empty).
func buildTranslationPrompt(pageNumber int, previousContext, chapterContext string) string {
	prompt := fmt.Sprintf(`You are an expert translator. Analyze the attached image of page %d of a document and do ALL of the following:

1. If the page contains a CHAPTER heading, translate it to Hebrew. If there is no chapter heading on this page, leave chapterTitle empty.
2. Independently, if the page contains a SECTION or subsection heading, translate it to Hebrew. If there is none, leave sectionTitle empty.
3. Translate the ENTIRE body text of the page to Hebrew. Translate everything, do not skip or condense.
4. Write a short Hebrew synopsis of the page, 4-6 sentences.
5. Write a short Hebrew title describing what this page is about.
`, pageNumber)

	if chapterContext != "" {
		prompt += fmt.Sprintf(`
The page belongs to this part of the document: %s
`, chapterContext)
	}

	if previousContext != "" {
		prompt += fmt.Sprintf(`
The previous page's translation ended with the text below. Continue the translation smoothly from it, completing any sentence that was cut off:
---
%s
---
`, previousContext)
	}

	prompt += `
CRITICAL OUTPUT RULES:
- Return ONLY a single JSON object, no markdown code fences, no explanations.
- The object must have EXACTLY these fields: translation, summary, articleTitle, chapterTitle, sectionTitle.
- chapterTitle and sectionTitle are empty strings when no such heading appears on the page.
- All values are Hebrew text.

Example:
{"translation": "...", "summary": "...", "articleTitle": "...", "chapterTitle": "", "sectionTitle": ""}
`

	return prompt
}

// buildChunkSummaryPrompt creates the per-chunk summarization instruction.
// index is 0-based; the prompt states the chunk's position as index+1 of
// total.
func buildChunkSummaryPrompt(index, total int, chunk domain.Chunk) string {
	return fmt.Sprintf(`You are summarizing part %d of %d of a translated document.

Part title: %s
Pages: %d-%d

Write a comprehensive Hebrew summary of the text below, 15-20 sentences. Cover all the main points, including specific details, methods, and findings. Preserve the logical flow and the terminology of the text.

CRITICAL OUTPUT RULES:
- Return PLAIN TEXT only: no JSON, no markdown, no headings.
- Write in Hebrew.

Text to summarize:
---
%s
---
`, index+1, total, chunk.Title, chunk.FirstPage(), chunk.LastPage(), chunk.Text)
}

// parsePagePayload extracts, decodes, and validates a page response. Any
// failure here fails the whole attempt and is retried by the engine.
func parsePagePayload(raw string) (*pagePayload, error) {
	text, err := llm.ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var payload pagePayload
	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return nil, domain.TranslationError("model response is not valid JSON", err)
	}

	if err := validatePayload(&payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
