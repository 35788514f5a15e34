// Package spike flags outliers with a robust rolling z-score.
//
// Each sample after a warm-up of Lag samples is compared with the mean and
// population standard deviation of a trailing window. Samples further than
// Threshold standard deviations from the mean produce a +1 or -1 signal, and
// enter the window damped by Influence so a burst of outliers does not
// immediately become the new baseline.
package spike
