package latex

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Preprocess normalizes math delimiters and converts the supported LaTeX structures to HTML.
// Passes run in a fixed order and the result is stable when preprocessed again.
//
// The text is not meant to go through a Markdown renderer afterwards:
// normalized math is no longer recognized by the dollar style. Use a Converter instead.
func Preprocess(text string) string {
	return Transform(text,
		NormalizeMathDelimiters,
		Rewrite,
	)
}

// PreprocessAll preprocesses texts concurrently and returns results in input order.
// The only possible error is the cancellation of the context.
func PreprocessAll(ctx context.Context, texts []string) ([]string, error) {
	results := make([]string, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, text := range texts {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = Preprocess(text)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
