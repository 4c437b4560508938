package annotation

import (
	"context"
	"runtime"
	"sync"
)

// WorkItem is a variant waiting to be fetched.
type WorkItem struct {
	Seq     int
	Variant string
}

// WorkResult holds the summary fetched for a single variant.
type WorkResult struct {
	Seq     int
	Variant string
	Summary *Summary
	Err     error
}

// ParallelFetch fetches summaries from src using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func ParallelFetch(ctx context.Context, src Source, items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				s, err := src.Summary(ctx, item.Variant)
				results <- WorkResult{
					Seq:     item.Seq,
					Variant: item.Variant,
					Summary: s,
					Err:     err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// Items numbers variants in order on a closed, buffered channel.
func Items(variants []string) <-chan WorkItem {
	ch := make(chan WorkItem, len(variants))
	for i, v := range variants {
		ch <- WorkItem{Seq: i, Variant: v}
	}
	close(ch)
	return ch
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
