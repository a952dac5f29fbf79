package ontology

import (
	"fmt"
	"strings"
)

// TermID identifies one node of the ontology, e.g. HP:0001250. Its canonical
// form is PREFIX:LOCAL. TermIDs order as plain strings; the ordering is only
// used to sort output.
type TermID string

// ParseTermID validates s and returns its canonical form. Surrounding
// whitespace is ignored and the OBO PURL form (HP_0001250) is accepted.
func ParseTermID(s string) (TermID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("empty term identifier")
	}

	sep := strings.IndexByte(s, ':')
	if sep < 0 {
		// PURL form, e.g. HP_0001250, always has a numeric local part
		sep = strings.LastIndexByte(s, '_')
		if sep > 0 && isDigits(s[sep+1:]) {
			s = s[:sep] + ":" + s[sep+1:]
		} else {
			sep = -1
		}
	}

	if sep <= 0 || sep == len(s)-1 {
		return "", fmt.Errorf("%q is not a PREFIX:LOCAL term identifier", s)
	}
	if strings.ContainsAny(s, " \t") {
		return "", fmt.Errorf("%q contains whitespace", s)
	}

	return TermID(s), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// MustParseTermID is ParseTermID for identifiers known to be valid, such as
// constants and test fixtures.
func MustParseTermID(s string) TermID {
	id, err := ParseTermID(s)
	if err != nil {
		panic(err)
	}

	return id
}

func (t TermID) String() string {
	return string(t)
}

// Prefix returns the namespace of the identifier, e.g. HP.
func (t TermID) Prefix() string {
	if i := strings.IndexByte(string(t), ':'); i > 0 {
		return string(t)[:i]
	}

	return ""
}

// Root of the Human Phenotype Ontology ("All").
const HPORoot TermID = "HP:0000001"
