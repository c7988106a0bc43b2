package tbl

import (
	"strconv"

	"github.com/matzehuels/featuretable/pkg/annotation"
	"github.com/matzehuels/featuretable/pkg/errors"
)

// Coordinates renders a zero-based half-open interval as the two position
// columns of a feature row, in written order.
//
// The interval becomes one-based closed, reverse-strand features swap the
// two columns, then a 5' truncation prefixes "<" to the first column and a
// 3' truncation prefixes ">" to the second. The markers are applied after
// the swap, to the written slots.
//
// An unresolved strand fails with ORIENTATION_UNDEFINED.
func Coordinates(start, end int, strand annotation.Strand, trunc annotation.Truncation) (first, second string, err error) {
	first = strconv.Itoa(start + 1)
	second = strconv.Itoa(end)

	switch strand {
	case annotation.StrandForward:
	case annotation.StrandReverse:
		first, second = second, first
	default:
		return "", "", errors.New(errors.ErrCodeOrientationUndefined, "feature %d..%d has no strand", start, end)
	}

	if trunc.FivePrime() {
		first = "<" + first
	}
	if trunc.ThreePrime() {
		second = ">" + second
	}
	return first, second, nil
}
