// Package interp provides interpolation primitives used by the resampler.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// [Mode] selects between them at resampler construction time.
package interp
