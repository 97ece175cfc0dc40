// Package disagg decomposes the rate at which a ground-motion level is
// exceeded at a site into contributions from magnitude, distance and epsilon
// bins, and from individual sources.
//
// # Flow
//
// An Engine walks the forecast one source and one rupture at a time. Each
// rupture is evaluated against the ground-motion model (Evaluate) to give a
// Sample carrying its equivalent-Poisson rate of joint occurrence and
// exceedance:
//
//	rate = -P(exceed | rupture) * ln(1 - P(rupture))
//
// Samples with a positive rate go to an Aggregator, which sums them into the
// (distance, magnitude, epsilon) grid and keeps rate-weighted sums for the
// means. Finalize turns the sums into percentages, means and the modal cell.
// RankSources orders the per-source totals for reporting.
//
// # Concurrency
//
// A run is single-threaded and processes ruptures strictly in forecast
// order, so sums and the first-found mode tie-break are reproducible. An
// Engine runs one Disaggregate call at a time (a concurrent call gets
// ErrBusy); its progress counters may be read from any goroutine.
package disagg
