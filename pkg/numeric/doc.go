// Package numeric holds the small set of generic numeric helpers the
// collection pipeline needs: smoothing a noisy sample-rate/drop-rate
// series (EMA), safely differencing monotonic kernel counters
// (DeltaU64), dividing without panicking on a near-zero denominator
// (SafeDiv), and clamping a fraction into [0,1] (Clamp01).
//
// Grounded on pkg/system/util/util.go (github.com/ja7ad/consumption),
// which implements the same four operations for that project's
// power-estimation ratios. No other lightswitch package imports this
// one.
package numeric
