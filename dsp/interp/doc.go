// Package interp provides the fractional-frame kernels used to read sample data.
//
// Available methods, from cheapest to highest quality:
//
//   - [Linear2]:  2-point linear interpolation
//   - [Hermite4]: 4-point cubic Hermite
//
// [Mode] selects a kernel at construction time; [LagrangeInterpolator] picks
// one by polynomial order for callers that gather their own neighbourhoods.
package interp
