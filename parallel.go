package gotdir

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultBatchWorkers bounds concurrent host calls in TranslateBatch.
const DefaultBatchWorkers = 4

// BatchResult holds the outcome of TranslateBatch, indexed like the input.
type BatchResult struct {
	Results []*Result // nil where the text was blank or failed
	Errors  []error   // nil where the text was translated

	// Unique is the number of distinct (text, direction) pairs translated.
	Unique int
}

// Failed returns the number of texts that could not be translated.
func (b *BatchResult) Failed() int {
	n := 0
	for _, err := range b.Errors {
		if err != nil {
			n++
		}
	}
	return n
}

// TranslateBatch translates texts concurrently, each in the direction the
// switcher picks for it while current is active. Texts with the same hash
// and direction are translated once. At most workers host calls run at a
// time (DefaultBatchWorkers when workers <= 0). Results are not rendered.
//
// Per-text failures are reported in BatchResult.Errors; the returned error is
// non-nil only when ctx ends before the batch completes.
func (t *Translator) TranslateBatch(ctx context.Context, current Direction, texts []string, workers int) (*BatchResult, error) {
	if workers <= 0 {
		workers = DefaultBatchWorkers
	}

	out := &BatchResult{
		Results: make([]*Result, len(texts)),
		Errors:  make([]error, len(texts)),
	}

	type job struct {
		dir     Direction
		text    string
		indices []int
	}

	// Deduplicate by hash and direction, keeping first-seen order.
	var jobs []*job
	byKey := make(map[string]*job)
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			out.Errors[i] = &TranslationError{Message: "nothing to translate"}
			continue
		}
		dir := t.Direction(current, text)
		key := CacheKey(HashText(text), dir)
		if j, ok := byKey[key]; ok {
			j.indices = append(j.indices, i)
			continue
		}
		j := &job{dir: dir, text: text, indices: []int{i}}
		byKey[key] = j
		jobs = append(jobs, j)
	}
	out.Unique = len(jobs)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, j := range jobs {
		j := j
		g.Go(func() error {
			res, err := t.translate(gctx, j.dir, j.text)
			// Each job owns its indices.
			for _, i := range j.indices {
				out.Results[i], out.Errors[i] = res, err
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return out, err
	}
	return out, nil
}
