package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-motion/dsp/filter/bank"
	"github.com/cwbudde/algo-motion/dsp/interp"
	"github.com/cwbudde/algo-motion/dsp/resample"
	"github.com/cwbudde/algo-motion/series"
	"github.com/cwbudde/algo-motion/stats/spike"
)

// Defaults for a 60 Hz conditioning run.
const (
	DefaultSampleRate  = 60.0
	DefaultSmoothing   = 10
	DefaultPrimaryAxis = "y"
)

// Config describes a conditioning run. The zero value is not valid; start
// from DefaultConfig.
type Config struct {
	// SampleRate of the resampling grid in Hz. The grid step is 1000/SampleRate ms.
	SampleRate    float64             `yaml:"sampleRate" json:"sampleRate"`
	Interpolation interp.Mode         `yaml:"interpolation" json:"interpolation"`
	Tail          resample.TailPolicy `yaml:"tail" json:"tail"`

	// Smoothing is the moving-average window width. 0 disables smoothing.
	Smoothing int `yaml:"smoothing" json:"smoothing"`

	// Filters are applied in order. A stage without a sample rate inherits
	// SampleRate.
	Filters []bank.Config `yaml:"filters" json:"filters"`

	Spikes SpikeConfig `yaml:"spikes" json:"spikes"`

	// PrimaryAxis is "x", "y", "z" or "max-variance".
	PrimaryAxis string `yaml:"primaryAxis" json:"primaryAxis"`

	DominantFrequency bool `yaml:"dominantFrequency" json:"dominantFrequency"`

	// Workers bounds RunBatch concurrency. 0 uses GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`
}

// SpikeConfig enables anomaly detection on the primary axis.
type SpikeConfig struct {
	Enabled      bool `yaml:"enabled" json:"enabled"`
	spike.Params `yaml:",inline"`
}

// DefaultConfig returns a 60 Hz grid, smoothing window 10, one order-5
// Butterworth lowpass at 10 Hz and axis Y as the primary axis.
func DefaultConfig() Config {
	return Config{
		SampleRate:    DefaultSampleRate,
		Interpolation: interp.Linear,
		Tail:          resample.TailZero,
		Smoothing:     DefaultSmoothing,
		Filters: []bank.Config{{
			Direction:      bank.Lowpass,
			Characteristic: bank.Butterworth,
			Mode:           bank.IIR,
			Order:          5,
			Cutoff:         10,
		}},
		Spikes:      SpikeConfig{Params: spike.DefaultParams()},
		PrimaryAxis: DefaultPrimaryAxis,
	}
}

// LoadConfig reads a YAML configuration file. Keys absent from the file keep
// their DefaultConfig values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("pipeline: read config: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("pipeline: %s: %w", path, err)
	}

	return cfg, nil
}

// ParseConfig decodes YAML over DefaultConfig and validates the result.
// Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", series.ErrInvalidConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Step returns the grid step in milliseconds.
func (c Config) Step() float64 { return resample.StepForRate(c.SampleRate) }

// FilterStages returns Filters with the grid sample rate filled in.
func (c Config) FilterStages() []bank.Config {
	out := make([]bank.Config, len(c.Filters))
	for i, f := range c.Filters {
		if f.SampleRate == 0 {
			f.SampleRate = c.SampleRate
		}

		out[i] = f
	}

	return out
}

// Validate checks every setting, including each filter stage against the
// grid sample rate. Failures wrap series.ErrInvalidConfiguration.
func (c Config) Validate() error {
	if !(c.SampleRate > 0) || math.IsInf(c.SampleRate, 0) {
		return fmt.Errorf("%w: sample rate %g Hz", series.ErrInvalidConfiguration, c.SampleRate)
	}

	if _, err := c.Interpolation.MarshalText(); err != nil {
		return fmt.Errorf("%w: %w", series.ErrInvalidConfiguration, err)
	}

	if _, err := c.Tail.MarshalText(); err != nil {
		return err
	}

	if c.Smoothing < 0 {
		return fmt.Errorf("%w: smoothing window %d < 0", series.ErrInvalidConfiguration, c.Smoothing)
	}

	for i, f := range c.FilterStages() {
		if f.SampleRate != c.SampleRate {
			return fmt.Errorf("%w: filter %d sample rate %g Hz differs from grid rate %g Hz",
				series.ErrInvalidConfiguration, i, f.SampleRate, c.SampleRate)
		}

		if err := f.Validate(); err != nil {
			return fmt.Errorf("filter %d: %w", i, err)
		}
	}

	if c.Spikes.Enabled {
		if err := c.Spikes.Validate(); err != nil {
			return fmt.Errorf("spikes: %w", err)
		}
	}

	if _, err := ParseAxisPolicy(c.PrimaryAxis); err != nil {
		return err
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers %d < 0", series.ErrInvalidConfiguration, c.Workers)
	}

	return nil
}
