package phenocompare

import (
	"io"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in the reader, assuming a CSV-like file. Files with a single column
// have no detectable delimiter and get a comma.
func DetermineDelimiter(r io.Reader) rune {
	d := detector.New()
	delimiters := d.DetectDelimiter(r, '"')

	if len(delimiters) > 0 && len(delimiters[0]) > 0 {
		return rune(delimiters[0][0])
	}

	return ','
}

// DetermineDelimiterAmong is like DetermineDelimiter, but only accepts one of
// the runes in candidates. Ontology accessions such as HP:0001250 make the
// colon look like a delimiter, so callers reading term lists restrict the
// choice. If no candidate is detected, fallback is returned.
func DetermineDelimiterAmong(r io.Reader, candidates string, fallback rune) rune {
	d := detector.New()

	for _, delimiter := range d.DetectDelimiter(r, '"') {
		if len(delimiter) == 0 {
			continue
		}
		if strings.ContainsRune(candidates, rune(delimiter[0])) {
			return rune(delimiter[0])
		}
	}

	return fallback
}
