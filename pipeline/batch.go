package pipeline

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/cwbudde/algo-motion/series"
)

// Result is the outcome of one subject in a batch.
type Result struct {
	Subject string
	Series  series.AnnotatedSeries
	Err     error
	Elapsed time.Duration
}

// RunBatch conditions every recording on a bounded pool of workers and
// returns one Result per input, in input order. A failing subject never
// aborts the others. Subjects not yet started when ctx is cancelled get
// ctx.Err().
func (p *Pipeline) RunBatch(ctx context.Context, raws []series.RawSeries) []Result {
	results := make([]Result, len(raws))
	if len(raws) == 0 {
		return results
	}

	workers := p.cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	workers = min(workers, len(raws))

	jobs := make(chan int)

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				results[i] = p.runOne(ctx, raws[i])
			}
		}()
	}

	for i := range raws {
		jobs <- i
	}

	close(jobs)
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	p.log.Info("batch complete", "subjects", len(raws), "failed", failed, "workers", workers)

	return results
}

func (p *Pipeline) runOne(ctx context.Context, raw series.RawSeries) Result {
	res := Result{Subject: raw.Subject()}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	start := time.Now()
	res.Series, res.Err = p.Run(raw)
	res.Elapsed = time.Since(start)

	if res.Err != nil {
		p.log.Warn("subject failed", "subject", res.Subject, "err", res.Err)
	} else {
		p.log.Info("subject processed", "subject", res.Subject,
			"samples", res.Series.Len(), "primary", res.Series.Primary, "elapsed", res.Elapsed)
	}

	return res
}
