// Package patient loads cohorts of patients annotated with ontology terms and
// partitions them into the named groups that are compared.
package patient

import (
	"sort"

	"github.com/carbocation/phenocompare/ontology"
)

// Patient carries the terms that were directly observed for one person.
// Inferred ancestors are never stored here.
type Patient struct {
	ID string

	// Gene is the causal gene symbol, if the patient file declares one. Only
	// gene based grouping uses it.
	Gene string

	// Terms is sorted ascending and free of duplicates.
	Terms []ontology.TermID
}

// New returns a Patient whose terms are sorted and de-duplicated.
func New(id string, terms []ontology.TermID) Patient {
	return Patient{ID: id, Terms: uniqueTerms(terms)}
}

func uniqueTerms(terms []ontology.TermID) []ontology.TermID {
	out := make([]ontology.TermID, 0, len(terms))
	seen := make(map[ontology.TermID]struct{}, len(terms))
	for _, term := range terms {
		if _, exists := seen[term]; exists {
			continue
		}
		seen[term] = struct{}{}
		out = append(out, term)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
