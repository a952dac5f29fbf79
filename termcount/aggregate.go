// Package termcount tallies, for every term of an ontology, how many patients
// in each group exhibit that term or one of its descendants.
package termcount

import (
	"errors"
	"fmt"
	"sort"

	"github.com/carbocation/phenocompare/ontology"
	"github.com/carbocation/phenocompare/patient"
)

// Hierarchy answers ancestor closure queries. *ontology.Ontology satisfies it.
type Hierarchy interface {
	// AncestorClosure returns the term and all of its ancestors, without
	// duplicates. It fails with *ontology.UnresolvableTermError for unknown
	// terms.
	AncestorClosure(term ontology.TermID) ([]ontology.TermID, error)
}

var ErrNoGroups = errors.New("no groups to compare")

// PatientClosure returns the union of the ancestor closures of every term
// directly annotated on p, sorted ascending. A term reached through several
// annotations or several paths appears once.
func PatientClosure(h Hierarchy, p patient.Patient) ([]ontology.TermID, error) {
	closure, _, err := patientClosure(h, p)
	return closure, err
}

// patientClosure also returns the annotated term that could not be resolved.
func patientClosure(h Hierarchy, p patient.Patient) ([]ontology.TermID, ontology.TermID, error) {
	seen := make(map[ontology.TermID]struct{})
	for _, term := range p.Terms {
		closure, err := h.AncestorClosure(term)
		if err != nil {
			return nil, term, err
		}
		for _, ancestor := range closure {
			seen[ancestor] = struct{}{}
		}
	}

	out := make([]ontology.TermID, 0, len(seen))
	for term := range seen {
		out = append(out, term)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out, "", nil
}

// Validate checks that groups can be compared: there is at least one group, no
// more than MaxGroups, and none of them is empty.
func Validate(groups []patient.Group) error {
	if len(groups) == 0 {
		return ErrNoGroups
	}
	if len(groups) > MaxGroups {
		return fmt.Errorf("%d groups requested, at most %d are supported", len(groups), MaxGroups)
	}

	return patient.CheckNonEmpty(groups)
}

// Aggregate counts, for every term, the patients of each group whose annotated
// terms have that term in their ancestor closure. Each patient contributes at
// most one to any term of its group, no matter how many of its annotations
// lead there.
//
// Groups are validated before any counting. If a patient carries a term the
// hierarchy cannot resolve, an *UnknownTermError is returned and no table.
func Aggregate(h Hierarchy, groups []patient.Group) (*Table, error) {
	if err := Validate(groups); err != nil {
		return nil, err
	}

	table := NewTable(len(groups))
	for g, group := range groups {
		for _, p := range group.Patients {
			if err := countPatient(table, h, group, g, p); err != nil {
				return nil, err
			}
		}
	}

	return table, nil
}

func countPatient(table *Table, h Hierarchy, group patient.Group, g int, p patient.Patient) error {
	closure, term, err := patientClosure(h, p)
	if err != nil {
		return newUnknownTermError(group, g, p, term, err)
	}

	table.addPatient(closure, g)

	return nil
}
