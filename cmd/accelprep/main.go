// Command accelprep conditions accelerometer recordings and writes one HTML
// report per subject plus a JSON summary of the batch.
//
// Usage:
//
//	accelprep [flags] file.csv ...
//
// Each CSV file holds one subject with the columns username, timestamp,
// accX, accY and accZ. Subjects are processed in parallel; a failing subject
// is reported and does not stop the others. The exit status is 1 if any
// subject failed and 2 for usage errors.
//
// Examples:
//
//	accelprep data/*.csv
//	accelprep -config pipeline.yaml -out reports -spikes data/n5.csv
//	accelprep -db results.db -log-format json data/*.csv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/cwbudde/algo-motion/internal/ingest"
	"github.com/cwbudde/algo-motion/internal/report"
	"github.com/cwbudde/algo-motion/internal/store"
	"github.com/cwbudde/algo-motion/pipeline"
	"github.com/cwbudde/algo-motion/series"
)

const summaryFile = "summary.json"

type options struct {
	config    string
	out       string
	db        string
	workers   int
	spikes    bool
	dominant  bool
	logFormat string
	logLevel  string
	files     []string
}

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		fmt.Fprintf(stderr, "error: %v\n", err)

		return 2
	}

	log, err := newLogger(stderr, opts.logFormat, opts.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Error("invalid configuration", "err", err)
		return 2
	}

	p, err := pipeline.New(cfg, pipeline.WithLogger(log))
	if err != nil {
		log.Error("invalid configuration", "err", err)
		return 2
	}

	log.Info("starting", "pipeline", p.String(), "subjects", len(opts.files))

	started := time.Now()
	results := process(ctx, p, opts.files, log)

	if err := writeOutputs(opts.out, results, log); err != nil {
		log.Error("write reports", "err", err)
		return 1
	}

	if opts.db != "" {
		if err := save(ctx, opts.db, started, cfg, results, log); err != nil {
			log.Error("save results", "db", opts.db, "err", err)
			return 1
		}
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(stdout, "FAIL %s: %v\n", r.Subject, r.Err)
		} else {
			fmt.Fprintf(stdout, "ok   %s (%d samples, primary %s)\n", r.Subject, r.Series.Len(), r.Series.Primary)
		}
	}

	if failed > 0 {
		log.Warn("finished with failures", "failed", failed, "subjects", len(results))
		return 1
	}

	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options

	fs := flag.NewFlagSet("accelprep", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.config, "config", "", "YAML pipeline configuration (default: built-in 60 Hz defaults)")
	fs.StringVar(&o.out, "out", "reports", "output directory for HTML reports and "+summaryFile)
	fs.StringVar(&o.db, "db", "", "SQLite database to record the run in (optional)")
	fs.IntVar(&o.workers, "workers", -1, "parallel subjects (0 = GOMAXPROCS, default from config)")
	fs.BoolVar(&o.spikes, "spikes", false, "enable spike detection on the primary axis")
	fs.BoolVar(&o.dominant, "dominant", false, "estimate the dominant frequency of every axis")
	fs.StringVar(&o.logFormat, "log-format", "text", "log format: text or json")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: accelprep [flags] file.csv ...\n\n")
		fmt.Fprintf(stderr, "Conditions accelerometer recordings and writes HTML reports.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	o.files = fs.Args()
	if len(o.files) == 0 {
		fs.Usage()
		return options{}, fmt.Errorf("%w: no input files", errUsage)
	}

	return o, nil
}

func newLogger(w io.Writer, format, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("%w: log level %q", errUsage, level)
	}

	hopts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(w, hopts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, hopts)), nil
	default:
		return nil, fmt.Errorf("%w: log format %q", errUsage, format)
	}
}

func loadConfig(o options) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()

	if o.config != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(o.config); err != nil {
			return pipeline.Config{}, err
		}
	}

	if o.workers >= 0 {
		cfg.Workers = o.workers
	}

	if o.spikes {
		cfg.Spikes.Enabled = true
	}

	if o.dominant {
		cfg.DominantFrequency = true
	}

	return cfg, cfg.Validate()
}

// process ingests every file and runs the readable ones as one batch.
// Results are in file order; unreadable files carry their ingest error.
func process(ctx context.Context, p *pipeline.Pipeline, files []string, log *slog.Logger) []pipeline.Result {
	results := make([]pipeline.Result, len(files))

	var (
		raws []series.RawSeries
		idx  []int
	)

	for i, f := range files {
		raw, err := ingest.ReadFile(f)
		if err != nil {
			log.Warn("ingest failed", "file", f, "err", err)
			results[i] = pipeline.Result{Subject: filepath.Base(f), Err: err}

			continue
		}

		raws = append(raws, raw)
		idx = append(idx, i)
	}

	for j, r := range p.RunBatch(ctx, raws) {
		results[idx[j]] = r
	}

	return results
}

func writeOutputs(dir string, results []pipeline.Result, log *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	var ok []pipeline.Result

	subjects := make([]string, 0, len(results))

	for _, r := range results {
		if r.Err == nil {
			ok = append(ok, r)
			subjects = append(subjects, r.Subject)
		}
	}

	names := report.FileNames(subjects)

	for i, r := range ok {
		path := filepath.Join(dir, names[i])
		if err := writeFile(path, func(w io.Writer) error { return report.Render(w, r.Series) }); err != nil {
			return err
		}

		log.Debug("report written", "subject", r.Subject, "path", path)
	}

	return writeFile(filepath.Join(dir, summaryFile), func(w io.Writer) error {
		return report.WriteSummary(w, results)
	})
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(f)
}

func save(ctx context.Context, path string, started time.Time, cfg pipeline.Config, results []pipeline.Result, log *slog.Logger) error {
	st, err := store.Open(ctx, path)
	if err != nil {
		return err
	}
	defer st.Close()

	run, err := st.SaveRun(ctx, started, cfg, results)
	if err != nil {
		return err
	}

	log.Info("run recorded", "run", run.ID, "subjects", run.Subjects, "failed", run.Failed)

	return nil
}
