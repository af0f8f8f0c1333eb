/*
normalize.go - Day-name normalization

PURPOSE:
  A single pure normalization function applied at every input boundary
  (service decoding, import). "Miércoles", "miercoles" and "MIÉRCOLES" all
  map to one canonical token. Comparison logic elsewhere never normalizes;
  it only sees canonical Weekday values.

IMPLEMENTATION:
  Unicode decomposition (NFD) + removal of combining marks + lowercase.
  This folds accents without a hand-maintained replacement table.
*/
package trips

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// accentFold strips combining marks after canonical decomposition.
var accentFold = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var weekdayByName = map[string]Weekday{
	"lunes":     Lunes,
	"martes":    Martes,
	"miercoles": Miercoles,
	"jueves":    Jueves,
	"viernes":   Viernes,
	"sabado":    Sabado,
	"domingo":   Domingo,
}

// NormalizeDayName lowercases and accent-folds a day name. The result is not
// guaranteed to be a canonical day; use ParseWeekday for validation.
func NormalizeDayName(s string) string {
	folded, _, err := transform.String(accentFold, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// ParseWeekday normalizes a day name in any case/accent variant and maps it
// to the canonical Weekday. Unknown names yield a ValidationError.
func ParseWeekday(s string) (Weekday, error) {
	d, ok := weekdayByName[NormalizeDayName(s)]
	if !ok {
		return 0, &ValidationError{Field: "dia_semana", Value: s, Reason: "not a day of week"}
	}
	return d, nil
}
