package translate

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hebdoc/pdf-translator/internal/config"
	"github.com/hebdoc/pdf-translator/internal/domain"
)

// ModelClient is the single operation the pipeline needs from the model
// provider. Transport failures surface as ordinary errors.
type ModelClient interface {
	Complete(ctx context.Context, prompt, imagePath string, maxTokens int, temperature float64) (string, error)
}

// Sequencer walks the rendered pages strictly in order, one model call in
// flight at a time, carrying forward continuity and structural context from
// its own prior results.
type Sequencer struct {
	client ModelClient
	cfg    *config.Config
	engine *Engine
	sinks  []domain.PageSink
	logger zerolog.Logger
	sleep  sleepFunc

	// Progress, when set, is called as each page starts and finishes.
	Progress ProgressFunc
}

// NewSequencer creates a sequencer. Sinks are best-effort: their errors are
// logged and never interrupt the run.
func NewSequencer(client ModelClient, cfg *config.Config, logger zerolog.Logger, sinks ...domain.PageSink) *Sequencer {
	return &Sequencer{
		client: client,
		cfg:    cfg,
		engine: NewEngine(cfg.Pipeline.MaxRetries, cfg.Pipeline.RetryDelay.Std(), logger),
		sinks:  sinks,
		logger: logger,
		sleep:  defaultSleep,
	}
}

// Run translates every page in order and returns one PageResult per page,
// OK or FAILED, with page numbers exactly 1..N. No page failure aborts the
// run; only context cancellation does, and then the results so far are
// returned alongside the error.
func (s *Sequencer) Run(ctx context.Context, pages []domain.PageImage) ([]domain.PageResult, error) {
	results := make([]domain.PageResult, 0, len(pages))

	for i, page := range pages {
		select {
		case <-ctx.Done():
			return results, ctx.Err()
		default:
		}

		s.emit(ProgressEvent{Type: EventPageStart, Page: page.PageNumber, TotalPages: len(pages)})

		prevCtx := previousContext(results, s.cfg.Pipeline.ContextChars)
		chapCtx := chapterContext(results)

		res := s.processPage(ctx, page, prevCtx, chapCtx)
		results = append(results, res)

		if res.OK() {
			s.logger.Info().Int("page", res.PageNumber).Int("retries", res.RetryCount).Msg("page translated")
		} else {
			s.logger.Error().Int("page", res.PageNumber).Int("retries", res.RetryCount).Msg("page failed")
		}

		s.writeSinks(ctx, res)
		s.emit(ProgressEvent{Type: EventPageDone, Page: page.PageNumber, TotalPages: len(pages), Failed: !res.OK()})

		// Rate-limit pause between pages, success or failure, but not
		// after the last one.
		if i < len(pages)-1 {
			if err := s.sleep(ctx, s.cfg.Pipeline.PageDelay.Std()); err != nil {
				return results, err
			}
		}
	}

	return results, nil
}

// processPage runs the full per-page attempt ladder. Anything unexpected,
// including a panic outside the normal retry path, is converted at this
// boundary into the same FAILED shape so a single page can never abort the
// document run.
func (s *Sequencer) processPage(ctx context.Context, page domain.PageImage, prevCtx, chapCtx string) (res domain.PageResult) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Int("page", page.PageNumber).Any("panic", r).Msg("unexpected critical failure")
			res = failedResult(page.PageNumber, 0, fmt.Sprintf("unexpected critical failure: %v", r))
		}
	}()

	prompt := buildTranslationPrompt(page.PageNumber, prevCtx, chapCtx)

	payload, retries, err := s.engine.Attempt(ctx, func(ctx context.Context) (*pagePayload, error) {
		raw, err := s.client.Complete(ctx, prompt, page.ImagePath, s.cfg.Model.TranslationMaxTokens, s.cfg.Model.Temperature)
		if err != nil {
			return nil, err
		}
		return parsePagePayload(raw)
	})
	if err != nil {
		return failedResult(page.PageNumber, retries, fmt.Sprintf("translation failed after %d attempts: %v", retries+1, err))
	}

	return domain.PageResult{
		PageNumber:   page.PageNumber,
		Translation:  payload.Translation,
		Summary:      payload.Summary,
		ArticleTitle: payload.ArticleTitle,
		ChapterTitle: payload.ChapterTitle,
		SectionTitle: payload.SectionTitle,
		Status:       domain.PageStatusOK,
		RetryCount:   retries,
	}
}

// failedResult builds the terminal FAILED shape: a Hebrew placeholder
// translation naming the page and attempt count, and an English diagnostic
// in the summary field.
func failedResult(pageNumber, retries int, diagnostic string) domain.PageResult {
	return domain.PageResult{
		PageNumber:  pageNumber,
		Translation: fmt.Sprintf("תרגום עמוד %d נכשל לאחר %d ניסיונות", pageNumber, retries+1),
		Summary:     diagnostic,
		Status:      domain.PageStatusFailed,
		RetryCount:  retries,
	}
}

func (s *Sequencer) writeSinks(ctx context.Context, res domain.PageResult) {
	for _, sink := range s.sinks {
		if err := sink.WritePage(ctx, res); err != nil {
			s.logger.Warn().Str("sink", sink.Name()).Int("page", res.PageNumber).Err(err).Msg("page sink write failed")
		}
	}
}

func (s *Sequencer) emit(ev ProgressEvent) {
	if s.Progress != nil {
		s.Progress(ev)
	}
}

// previousContext returns the trailing maxChars characters of the
// immediately preceding page's translation, or "" when there is no previous
// page or it failed. Only the direct predecessor is consulted.
func previousContext(results []domain.PageResult, maxChars int) string {
	if len(results) == 0 {
		return ""
	}
	prev := results[len(results)-1]
	if !prev.OK() {
		return ""
	}
	return tailRunes(prev.Translation, maxChars)
}

// chapterContext scans backward for the first result with a non-empty
// chapter title and returns it, joined with that same result's section
// title when present. A result carrying only a section title does not stop
// the scan.
func chapterContext(results []domain.PageResult) string {
	for i := len(results) - 1; i >= 0; i-- {
		if results[i].ChapterTitle == "" {
			continue
		}
		if results[i].SectionTitle != "" {
			return results[i].ChapterTitle + " > " + results[i].SectionTitle
		}
		return results[i].ChapterTitle
	}
	return ""
}

func tailRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}
