// Package vector provides fixed-dimension vector helpers shared by the
// store and the processing pipeline.
//
// Sanitize coerces arbitrary input to a fixed dimension and strips
// non-finite values. Generator produces the named vector shapes used as
// pipeline inputs. ToFloat32 and ToFloat64 convert between the float64
// transform domain and the float32 storage domain.
package vector
