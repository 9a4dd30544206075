package feature

import (
	"sort"
)

// LabelEncoder integer-encodes one categorical field. Values seen at fit time
// get contiguous codes in sorted order; anything else maps to the unknown
// sentinel so transform never fails on new data.
type LabelEncoder struct {
	codes  map[string]int
	fitted bool
}

// Fit learns the code table from the observed values.
func (e *LabelEncoder) Fit(values []string) {
	distinct := make(map[string]struct{}, len(values))
	for _, v := range values {
		distinct[v] = struct{}{}
	}
	ordered := make([]string, 0, len(distinct))
	for v := range distinct {
		ordered = append(ordered, v)
	}
	sort.Strings(ordered)

	e.codes = make(map[string]int, len(ordered))
	for i, v := range ordered {
		e.codes[v] = i
	}
	e.fitted = true
}

// Fitted reports whether the code table has been learned.
func (e *LabelEncoder) Fitted() bool { return e.fitted }

// UnknownCode is the sentinel for values not present at fit time.
func (e *LabelEncoder) UnknownCode() int { return len(e.codes) }

// Encode maps a value to its code, or to the unknown sentinel.
func (e *LabelEncoder) Encode(value string) int {
	if code, ok := e.codes[value]; ok {
		return code
	}
	return e.UnknownCode()
}
