package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ky489401/anki-canonical/internal/qa"
	"github.com/ky489401/anki-canonical/pkg/text"
	"golang.org/x/time/rate"
)

// DefaultInterval is the minimal delay between two requests of a batch.
const DefaultInterval = time.Second

// GenerateQAFromTopics generates pairs for each section of a topic.
// Sections are processed in order, at most one request per interval.
// A failing section does not stop the others: the pairs already generated are
// returned with the joined errors. Each pair has its section as Source.
func (a *Assistant) GenerateQAFromTopics(ctx context.Context, sections []string, topic string, interval time.Duration) ([]qa.Pair, error) {
	if err := a.available(); err != nil {
		return nil, err
	}
	limiter := newLimiter(interval)

	var pairs []qa.Pair
	var errs []error
	for _, section := range sections {
		if err := limiter.Wait(ctx); err != nil {
			errs = append(errs, err)
			break
		}
		a.progress(fmt.Sprintf("Generating: %s", section))
		reply, err := a.Query(ctx, BuildQAPrompt(section, topic))
		if err != nil {
			errs = append(errs, fmt.Errorf("failed on %s: %w", section, err))
			continue
		}
		for _, pair := range qa.ExtractPairs(reply) {
			pair.Source = section
			pairs = append(pairs, pair)
		}
	}
	return pairs, errors.Join(errs...)
}

// EnhancedPair is a pair rewritten by the model.
// When the rewrite fails, Enhanced is the original pair and Err the cause.
type EnhancedPair struct {
	Original qa.Pair
	Enhanced qa.Pair
	Err      error
}

// EnhanceQA rewrites each pair with a clearer question and a more structured answer.
func (a *Assistant) EnhanceQA(ctx context.Context, pairs []qa.Pair) ([]EnhancedPair, error) {
	if err := a.available(); err != nil {
		return nil, err
	}
	result := make([]EnhancedPair, 0, len(pairs))
	for _, pair := range pairs {
		enhanced := EnhancedPair{Original: pair, Enhanced: pair}
		reply, err := a.Query(ctx, buildEnhancePrompt(pair.Question, pair.Answer))
		if err != nil {
			enhanced.Err = err
		} else if improved := qa.ExtractPairs(reply); len(improved) > 0 {
			enhanced.Enhanced.Question = improved[0].Question
			enhanced.Enhanced.Answer = improved[0].Answer
		}
		result = append(result, enhanced)
	}
	return result, nil
}

// BatchOptions configures BatchProcess.
type BatchOptions struct {
	// Size is the number of texts per batch.
	Size int
	// Interval is the delay between two batches.
	Interval time.Duration
	// Progress is called before each batch with its 1-based index.
	Progress func(batch, total int)
}

// BatchProcess applies process to every text, batch after batch.
// Results keep the order of texts. A failed text has the zero value and its error.
func BatchProcess[T any](ctx context.Context, texts []string, opts BatchOptions, process func(context.Context, string) (T, error)) ([]T, []error) {
	size := opts.Size
	if size <= 0 {
		size = 10
	}
	batches := text.ChunkList(texts, size)
	limiter := newLimiter(opts.Interval)

	results := make([]T, len(texts))
	errs := make([]error, len(texts))
	for batch, chunk := range batches {
		start := batch * size
		if err := limiter.Wait(ctx); err != nil {
			for i := start; i < len(texts); i++ {
				errs[i] = err
			}
			break
		}
		if opts.Progress != nil {
			opts.Progress(batch+1, len(batches))
		}
		for i, value := range chunk {
			results[start+i], errs[start+i] = process(ctx, value)
		}
	}
	return results, errs
}

func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}
