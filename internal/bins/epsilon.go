package bins

// NumEpsilon is the fixed number of epsilon bins.
const NumEpsilon = 8

// upper edges of the first seven epsilon bins; the eighth is open above 2.
var epsilonUpper = [NumEpsilon - 1]float64{-2, -1, -0.5, 0, 0.5, 1, 2}

var epsilonRanges = [NumEpsilon]string{
	"Emode <= -2",
	"-2 < Emode <= -1",
	"-1 < Emode <= -0.5",
	"-0.5 < Emode <= 0.0",
	"0.0 < Emode <= 0.5",
	"0.5 < Emode <= 1.0",
	"1.0 < Emode <= 2.0",
	"2.0 < Emode ",
}

var epsilonHeaders = [NumEpsilon]string{
	"E≤-2",
	"-2<E≤-1",
	"-1<E≤-0.5",
	" -0.5>E≤0",
	" 0<E≤0.5",
	" 0.5<E≤1",
	" 1<E≤2",
	" 2>E ",
}

// EpsilonIndex returns the bin holding eps. Bins are closed on the right,
// so eps == -2 is bin 0 and eps == 2 is bin 6. NaN falls into the last bin;
// callers that can see NaN should reject it first.
func EpsilonIndex(eps float64) int {
	for i, hi := range epsilonUpper {
		if eps <= hi {
			return i
		}
	}
	return NumEpsilon - 1
}

// EpsilonRange is the label used to report bin i as the modal epsilon.
func EpsilonRange(i int) string {
	if i < 0 || i >= NumEpsilon {
		return "Incorrect Index"
	}
	return epsilonRanges[i]
}

// EpsilonHeader is the bin-table column header for bin i.
func EpsilonHeader(i int) string {
	if i < 0 || i >= NumEpsilon {
		return ""
	}
	return epsilonHeaders[i]
}
