package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/cwbudde/algo-motion/dsp/filter/bank"
	"github.com/cwbudde/algo-motion/series"
)

// Pipeline runs the configured stages on one recording at a time. It holds
// only immutable configuration and designed coefficients, so Run may be
// called from multiple goroutines.
type Pipeline struct {
	cfg    Config
	bank   *bank.Bank
	policy AxisPolicy
	log    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards all records.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// New validates cfg and designs the filter bank.
func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	b, err := bank.New(cfg.FilterStages()...)
	if err != nil {
		return nil, err
	}

	policy, err := ParseAxisPolicy(cfg.PrimaryAxis)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:    cfg,
		bank:   b,
		policy: policy,
		log:    slog.New(slog.DiscardHandler),
	}

	for _, o := range opts {
		if o != nil {
			o(p)
		}
	}

	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Bank returns the designed filter bank.
func (p *Pipeline) Bank() *bank.Bank { return p.bank }

// Run conditions one recording. raw is not modified.
func (p *Pipeline) Run(raw series.RawSeries) (series.AnnotatedSeries, error) {
	log := p.log.With("subject", raw.Subject())

	r, err := Resample(raw, p.cfg)
	if err != nil {
		return series.AnnotatedSeries{}, err
	}

	log.Debug("resampled", "raw", raw.Len(), "grid", r.Len(), "fs", r.FS)

	r, err = Smooth(r, p.cfg.Smoothing)
	if err != nil {
		return series.AnnotatedSeries{}, err
	}

	f, err := Filter(r, p.bank)
	if err != nil {
		return series.AnnotatedSeries{}, err
	}

	log.Debug("filtered", "stages", len(f.Stages), "samples", f.Len())

	a, err := Annotate(f, p.policy)
	if err != nil {
		return series.AnnotatedSeries{}, err
	}

	if p.cfg.Spikes.Enabled {
		if a, err = DetectSpikes(a, p.cfg.Spikes.Params); err != nil {
			return series.AnnotatedSeries{}, err
		}

		log.Debug("spikes detected", "axis", a.Primary, "count", a.Signals.Count())
	}

	if p.cfg.DominantFrequency {
		if a, err = DominantFrequencies(a); err != nil {
			return series.AnnotatedSeries{}, err
		}
	}

	return a, nil
}

func (p *Pipeline) String() string {
	return fmt.Sprintf("pipeline(%g Hz, smoothing %d, %d filter stages, axis %s)",
		p.cfg.SampleRate, p.cfg.Smoothing, p.bank.Len(), p.policy)
}
