package translate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hebdoc/pdf-translator/internal/config"
	"github.com/hebdoc/pdf-translator/internal/domain"
)

// summaryErrorFormat is the placeholder substituted for a chunk whose
// summarization failed; it names the chunk so the gap is visible in the
// assembled summary.
const summaryErrorFormat = "שגיאה: לא ניתן ליצור סיכום עבור החלק \"%s\""

// Summarizer produces one long-form Hebrew summary per chunk. Each chunk
// gets exactly one model call: a failure is replaced with an explicit error
// placeholder and the run moves on to the next chunk.
type Summarizer struct {
	client ModelClient
	cfg    *config.Config
	logger zerolog.Logger
	sleep  sleepFunc

	Progress ProgressFunc
}

// NewSummarizer creates a chunk summarizer.
func NewSummarizer(client ModelClient, cfg *config.Config, logger zerolog.Logger) *Summarizer {
	return &Summarizer{
		client: client,
		cfg:    cfg,
		logger: logger,
		sleep:  defaultSleep,
	}
}

// SummarizeChunks summarizes every chunk in order, pausing the configured
// rate-limit delay between chunks (not after the last). Only context
// cancellation aborts; per-chunk failures are absorbed as placeholders.
func (s *Summarizer) SummarizeChunks(ctx context.Context, chunks []domain.Chunk) ([]domain.ChunkSummary, error) {
	summaries := make([]domain.ChunkSummary, 0, len(chunks))

	for i, chunk := range chunks {
		select {
		case <-ctx.Done():
			return summaries, ctx.Err()
		default:
		}

		s.emit(ProgressEvent{Type: EventChunkStart, Chunk: i + 1, TotalChunks: len(chunks)})

		summary := s.summarizeChunk(ctx, i, len(chunks), chunk)
		summaries = append(summaries, domain.ChunkSummary{
			Title:     chunk.Title,
			FirstPage: chunk.FirstPage(),
			LastPage:  chunk.LastPage(),
			Summary:   summary,
		})

		s.emit(ProgressEvent{Type: EventChunkDone, Chunk: i + 1, TotalChunks: len(chunks)})

		if i < len(chunks)-1 {
			if err := s.sleep(ctx, s.cfg.Pipeline.ChunkDelay.Std()); err != nil {
				return summaries, err
			}
		}
	}

	return summaries, nil
}

// summarizeChunk makes the single summarization call for one chunk. Any
// failure, transport or content, yields the error placeholder.
func (s *Summarizer) summarizeChunk(ctx context.Context, index, total int, chunk domain.Chunk) string {
	prompt := buildChunkSummaryPrompt(index, total, chunk)

	raw, err := s.client.Complete(ctx, prompt, "", s.cfg.Model.SummaryMaxTokens, s.cfg.Model.Temperature)
	if err == nil {
		err = validateField("summary", raw)
	}
	if err != nil {
		s.logger.Error().Int("chunk", index+1).Str("title", chunk.Title).Err(err).Msg("chunk summarization failed")
		return fmt.Sprintf(summaryErrorFormat, chunk.Title)
	}

	return raw
}

func (s *Summarizer) emit(ev ProgressEvent) {
	if s.Progress != nil {
		s.Progress(ev)
	}
}
