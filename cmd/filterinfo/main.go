// Command filterinfo prints the frequency response of a filter chain.
//
// Usage:
//
//	filterinfo [flags] [stage ...]
//
// A stage is written direction:characteristic:mode:order:cutoff, for example
// lowpass:butterworth:iir:5:10. Without stage arguments the filters of
// -config (or the built-in defaults) are shown.
//
// Examples:
//
//	filterinfo
//	filterinfo -rate 100 lowpass:bessel:iir:4:8
//	filterinfo -freqs 1,5,10,20 highpass:butterworth:fir:8:0.5 lowpass:butterworth:iir:5:10
//	filterinfo -config pipeline.yaml -sections
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-motion/dsp/filter/bank"
	"github.com/cwbudde/algo-motion/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("filterinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfgPath := fs.String("config", "", "YAML pipeline configuration providing sample rate and filters")
	rate := fs.Float64("rate", 0, "sample rate in Hz (default: from config)")
	freqs := fs.String("freqs", "0.5,1,2,5,10,15,20", "comma separated frequencies in Hz")
	sections := fs.Bool("sections", false, "also print biquad coefficients and FIR taps")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: filterinfo [flags] [direction:characteristic:mode:order:cutoff ...]\n\n")
		fmt.Fprintf(stderr, "Prints the magnitude response of each filter stage and of the chain.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}

		return 2
	}

	cfg := pipeline.DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = pipeline.LoadConfig(*cfgPath); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 2
		}
	}

	if *rate > 0 {
		cfg.SampleRate = *rate
	}

	stages := cfg.FilterStages()

	if fs.NArg() > 0 {
		stages = stages[:0]

		for _, arg := range fs.Args() {
			st, err := parseStage(arg, cfg.SampleRate)
			if err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
				return 2
			}

			stages = append(stages, st)
		}
	}

	points, err := parseFreqs(*freqs)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	b, err := bank.New(stages...)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 2
	}

	if err := printResponse(stdout, b, points); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	if *sections {
		if err := printCoefficients(stdout, b); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return 1
		}
	}

	return 0
}

// parseStage parses direction:characteristic:mode:order:cutoff.
func parseStage(s string, fs float64) (bank.Config, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 5 {
		return bank.Config{}, fmt.Errorf("stage %q: want direction:characteristic:mode:order:cutoff", s)
	}

	cfg := bank.Config{SampleRate: fs}

	if err := cfg.Direction.UnmarshalText([]byte(parts[0])); err != nil {
		return bank.Config{}, fmt.Errorf("stage %q: %w", s, err)
	}

	if err := cfg.Characteristic.UnmarshalText([]byte(parts[1])); err != nil {
		return bank.Config{}, fmt.Errorf("stage %q: %w", s, err)
	}

	if err := cfg.Mode.UnmarshalText([]byte(parts[2])); err != nil {
		return bank.Config{}, fmt.Errorf("stage %q: %w", s, err)
	}

	order, err := strconv.Atoi(parts[3])
	if err != nil {
		return bank.Config{}, fmt.Errorf("stage %q: order: %w", s, err)
	}

	cutoff, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return bank.Config{}, fmt.Errorf("stage %q: cutoff: %w", s, err)
	}

	cfg.Order = order
	cfg.Cutoff = cutoff

	return cfg, nil
}

func parseFreqs(s string) ([]float64, error) {
	var out []float64

	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}

		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid frequency %q", f)
		}

		out = append(out, v)
	}

	if len(out) == 0 {
		return nil, errors.New("no frequencies given")
	}

	return out, nil
}

func printResponse(w io.Writer, b *bank.Bank, freqs []float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := []string{"Stage", "Shrink"}
	rule := []string{"-----", "------"}

	for _, f := range freqs {
		h := fmt.Sprintf("%g Hz [dB]", f)
		header = append(header, h)
		rule = append(rule, strings.Repeat("-", len(h)))
	}

	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(tw, strings.Join(rule, "\t")); err != nil {
		return err
	}

	row := func(label string, shrink int, mag func(float64) float64) error {
		cells := []string{label, strconv.Itoa(shrink)}
		for _, f := range freqs {
			cells = append(cells, fmt.Sprintf("%.2f", mag(f)))
		}

		_, err := fmt.Fprintln(tw, strings.Join(cells, "\t"))

		return err
	}

	for _, st := range b.Stages() {
		if err := row(st.String(), st.Shrink(), st.MagnitudeDB); err != nil {
			return err
		}
	}

	if b.Len() > 1 {
		if err := row("chain", b.Shrink(), b.MagnitudeDB); err != nil {
			return err
		}
	}

	return tw.Flush()
}

func printCoefficients(w io.Writer, b *bank.Bank) error {
	for _, st := range b.Stages() {
		if _, err := fmt.Fprintf(w, "\n%s\n", st); err != nil {
			return err
		}

		for i, c := range st.Sections() {
			if _, err := fmt.Fprintf(w, "  section %d: b=[%.9g %.9g %.9g] a=[1 %.9g %.9g]\n",
				i, c.B0, c.B1, c.B2, c.A1, c.A2); err != nil {
				return err
			}
		}

		if taps := st.Taps(); taps != nil {
			if _, err := fmt.Fprintf(w, "  %d taps: %.6g\n", len(taps), taps); err != nil {
				return err
			}
		}
	}

	return nil
}
