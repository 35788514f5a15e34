// Package ingest reads accelerometer recordings from CSV files.
//
// A file holds one subject. The header must name the columns username,
// timestamp, accX, accY and accZ in any order and any letter case; other
// columns are ignored. Timestamps are epoch milliseconds and must be
// strictly increasing.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-motion/series"
)

// ErrMalformed indicates a CSV file that cannot be parsed into a recording.
var ErrMalformed = errors.New("ingest: malformed csv")

// Column names, compared case-insensitively.
const (
	ColUsername  = "username"
	ColTimestamp = "timestamp"
	ColAccX      = "accx"
	ColAccY      = "accy"
	ColAccZ      = "accz"
)

var required = [...]string{ColUsername, ColTimestamp, ColAccX, ColAccY, ColAccZ}

type columns struct {
	username, timestamp int
	axis                [3]int
}

// ReadFile reads the recording stored at path.
func ReadFile(path string) (series.RawSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return series.RawSeries{}, fmt.Errorf("ingest: %w", err)
	}
	defer f.Close()

	return ReadCSV(f, filepath.Base(path))
}

// ReadCSV parses one recording from r. file names the source in errors and
// in the returned series. The username is taken from the first row; rows
// naming a different user are rejected.
func ReadCSV(r io.Reader, file string) (series.RawSeries, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return series.RawSeries{}, fmt.Errorf("%w: %s: no header", ErrMalformed, file)
	}

	if err != nil {
		return series.RawSeries{}, fmt.Errorf("%w: %s: %w", ErrMalformed, file, err)
	}

	cols, err := parseHeader(header)
	if err != nil {
		return series.RawSeries{}, fmt.Errorf("%w: %s: %w", ErrMalformed, file, err)
	}

	var (
		username string
		samples  []series.RawSample
	)

	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return series.RawSeries{}, fmt.Errorf("%w: %s: %w", ErrMalformed, file, err)
		}

		line, _ := cr.FieldPos(0)

		s, err := parseRow(rec, cols)
		if err != nil {
			return series.RawSeries{}, fmt.Errorf("%w: %s line %d: %w", ErrMalformed, file, line, err)
		}

		user := strings.TrimSpace(rec[cols.username])
		if len(samples) == 0 {
			username = user
		} else if user != username {
			return series.RawSeries{}, fmt.Errorf("%w: %s line %d: username %q, file belongs to %q",
				ErrMalformed, file, line, user, username)
		}

		samples = append(samples, s)
	}

	return series.NewRawSeries(username, file, samples)
}

func parseHeader(header []string) (columns, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := idx[name]; dup {
			return columns{}, fmt.Errorf("duplicate column %q", h)
		}

		idx[name] = i
	}

	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return columns{}, fmt.Errorf("missing column %q", name)
		}
	}

	return columns{
		username:  idx[ColUsername],
		timestamp: idx[ColTimestamp],
		axis:      [3]int{idx[ColAccX], idx[ColAccY], idx[ColAccZ]},
	}, nil
}

func parseRow(rec []string, cols columns) (series.RawSample, error) {
	ts, err := parseTimestamp(rec[cols.timestamp])
	if err != nil {
		return series.RawSample{}, err
	}

	var v [3]float64

	for a, i := range cols.axis {
		f, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return series.RawSample{}, fmt.Errorf("axis %s: invalid value %q", series.Axis(a), rec[i])
		}

		v[a] = f
	}

	return series.RawSample{Time: ts, X: v[0], Y: v[1], Z: v[2]}, nil
}

// parseTimestamp accepts integer or fractional epoch milliseconds. Fractions
// are rounded to the nearest millisecond.
func parseTimestamp(s string) (int64, error) {
	s = strings.TrimSpace(s)

	if ts, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ts, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > 1<<62 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	return int64(math.Round(f)), nil
}
