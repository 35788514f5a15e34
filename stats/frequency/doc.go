// Package frequency estimates the spectral content of a conditioned signal.
package frequency
