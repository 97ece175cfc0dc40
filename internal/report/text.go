// Package report renders disaggregation results as text tables and writes
// them, with machine-readable copies, into an output directory.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"disagg/internal/bins"
	"disagg/internal/disagg"
)

const binSeparator = "-----\t----\t------\t------\t-------\t-------\t-------\t-------\t-------\t------\n"

// BinTable lists every (distance, magnitude) bin with its eight epsilon
// percentages and their total, distance-major.
func BinTable(res *disagg.Result) string {
	var b strings.Builder
	b.WriteString("Dist\tMag")
	for e := 0; e < bins.NumEpsilon; e++ {
		b.WriteString("\t" + bins.EpsilonHeader(e))
	}
	b.WriteString("\n")
	b.WriteString(binSeparator)

	for d, dc := range res.DistCenters {
		for m, mc := range res.MagCenters {
			fmt.Fprintf(&b, "%06.2f \t %.2f \t ", dc, mc)
			var total float64
			for _, p := range res.Percent[d][m] {
				fmt.Fprintf(&b, "%05.2f \t ", p)
				total += p
			}
			fmt.Fprintf(&b, "%05.2f\n", total)
		}
	}
	return b.String()
}

// MeanModeSummary reports the mean magnitude, distance and epsilon, and
// the ranges of the modal cell.
func MeanModeSummary(res *disagg.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n\n  Mbar = %s\n  Dbar = %s\n  Ebar = %s\n",
		shortFloat(res.MeanMag), shortFloat(res.MeanDist), shortFloat(res.MeanEpsilon))

	if !res.Mode.Found {
		b.WriteString("\n  no exceedance rate fell inside the bins\n")
		return b.String()
	}
	mLo, mHi := res.MagRange(res.Mode.Mag)
	dLo, dHi := res.DistRange(res.Mode.Dist)
	fmt.Fprintf(&b, "\n  %s ≤ Mmode < %s\n  %s ≤ Dmode < %s\n  %s\n",
		shortFloat(mLo), shortFloat(mHi), shortFloat(dLo), shortFloat(dHi), res.Mode.EpsilonRange)
	return b.String()
}

// SourceTable lists ranked sources. With showDistances, the four distance
// metrics follow each row (blank when a source had no distances).
func SourceTable(ranked []disagg.RankedSource, showDistances bool) string {
	var b strings.Builder
	b.WriteString("Source#\t% Contribution\tTotExceedRate\tSourceName")
	if showDistances {
		b.WriteString("\tDistRup\tDistX\tDistSeis\tDistJB")
	}
	b.WriteString("\n")
	for _, r := range ranked {
		fmt.Fprintf(&b, "%06d\t%05.2f\t%s\t%s", r.ID, r.Percent, shortFloat(r.Rate), r.Name)
		if showDistances {
			if d := r.Distances; d != nil {
				fmt.Fprintf(&b, "\t%05.2f\t%05.2f\t%05.2f\t%05.2f", d.Rup, d.X, d.Seis, d.JB)
			} else {
				b.WriteString("\t\t\t\t")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// shortFloat prints v at single precision with the fewest digits that
// round-trip, always keeping a decimal point: 7 prints as "7.0".
func shortFloat(v float64) string {
	s := strconv.FormatFloat(float64(float32(v)), 'g', -1, 32)
	if strings.ContainsAny(s, ".eEnN") {
		return s
	}
	return s + ".0"
}
