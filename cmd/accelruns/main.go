// Command accelruns inspects the run database written by accelprep -db.
//
// Usage:
//
//	accelruns -db results.db list
//	accelruns -db results.db show <run-id>
//	accelruns -db results.db delete <run-id>
//
// list prints one line per run, newest first. show prints the run
// configuration and a table of its subjects. delete removes a run with all of
// its subject results.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/cwbudde/algo-motion/internal/store"
	"github.com/cwbudde/algo-motion/pipeline"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("accelruns", flag.ContinueOnError)
	fs.SetOutput(stderr)

	db := fs.String("db", "", "SQLite database written by accelprep -db")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: accelruns -db file {list | show <run-id> | delete <run-id>}\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	rest := fs.Args()
	if *db == "" || len(rest) == 0 {
		fs.Usage()
		return 2
	}

	cmd, rest := rest[0], rest[1:]

	want := 1
	if cmd == "list" {
		want = 0
	}

	if (cmd != "list" && cmd != "show" && cmd != "delete") || len(rest) != want {
		fs.Usage()
		return 2
	}

	// Open would create a missing database; reading one makes no sense.
	if _, err := os.Stat(*db); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	st, err := store.Open(ctx, *db)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer st.Close()

	switch cmd {
	case "list":
		err = list(ctx, st, stdout)
	case "show":
		err = show(ctx, st, rest[0], stdout)
	default:
		if err = st.DeleteRun(ctx, rest[0]); err == nil {
			fmt.Fprintf(stdout, "deleted %s\n", rest[0])
		}
	}

	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	return 0
}

func list(ctx context.Context, st *store.Store, w io.Writer) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSUBJECTS\tFAILED\tRATE")

	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%g Hz\n",
			r.ID, r.Started.UTC().Format(time.RFC3339), r.Subjects, r.Failed, r.Config.SampleRate)
	}

	return tw.Flush()
}

func show(ctx context.Context, st *store.Store, id string, w io.Writer) error {
	r, err := st.GetRun(ctx, id)
	if err != nil {
		return err
	}

	subjects, err := st.Subjects(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "run %s started %s\n", r.ID, r.Started.UTC().Format(time.RFC3339))

	if p, err := pipeline.New(r.Config); err == nil {
		fmt.Fprintf(w, "%s\n", p)
	}

	for _, s := range r.Config.FilterStages() {
		fmt.Fprintf(w, "  %s\n", s)
	}

	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SUBJECT\tSAMPLES\tPRIMARY\tSPIKES\tSTDEV X\tSTDEV Y\tSTDEV Z\tELAPSED\t")

	for _, s := range subjects {
		if s.Err != "" {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\t-\t%s\t%s\n", s.Subject, s.Elapsed, s.Err)
			continue
		}

		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%.3f\t%.3f\t%.3f\t%s\t\n",
			s.Subject, s.Samples, s.Primary, s.Spikes,
			s.Stats[0].Stdev, s.Stats[1].Stdev, s.Stats[2].Stdev, s.Elapsed)
	}

	return tw.Flush()
}
