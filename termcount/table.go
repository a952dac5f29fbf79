package termcount

import (
	"fmt"
	"iter"
	"sort"

	"github.com/carbocation/phenocompare/ontology"
)

// MaxGroups bounds the number of groups a Table can hold. Groups are labelled
// A through Z in reports.
const MaxGroups = 26

// Table maps each term to the number of patients per group whose ancestor
// closure contains it. Terms that no patient reaches are never stored, so a
// missing term means zero in every group.
//
// A Table is built by one goroutine and is read-only afterwards.
type Table struct {
	groups int
	counts map[ontology.TermID][]int
}

func NewTable(groups int) *Table {
	return &Table{
		groups: groups,
		counts: make(map[ontology.TermID][]int),
	}
}

// Groups returns the number of count columns.
func (t *Table) Groups() int {
	return t.groups
}

// Len returns the number of terms with a non-zero count in some group.
func (t *Table) Len() int {
	return len(t.counts)
}

// Get returns the live count slice for term, creating a zeroed one on first
// use.
func (t *Table) Get(term ontology.TermID) []int {
	counts, exists := t.counts[term]
	if !exists {
		counts = make([]int, t.groups)
		t.counts[term] = counts
	}

	return counts
}

// Counts returns a copy of the counts for term, and whether the term is present.
func (t *Table) Counts(term ontology.TermID) ([]int, bool) {
	counts, exists := t.counts[term]
	if !exists {
		return nil, false
	}

	return append([]int(nil), counts...), true
}

// Terms returns the terms in the table in ascending order.
func (t *Table) Terms() []ontology.TermID {
	out := make([]ontology.TermID, 0, len(t.counts))
	for term := range t.counts {
		out = append(out, term)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Entries yields every term with a copy of its counts in ascending term order.
// The sequence may be ranged over any number of times.
func (t *Table) Entries() iter.Seq2[ontology.TermID, []int] {
	return func(yield func(ontology.TermID, []int) bool) {
		for _, term := range t.Terms() {
			if !yield(term, append([]int(nil), t.counts[term]...)) {
				return
			}
		}
	}
}

// Merge adds every count in other to t.
func (t *Table) Merge(other *Table) error {
	if other.groups != t.groups {
		return fmt.Errorf("cannot merge a table with %d groups into one with %d", other.groups, t.groups)
	}

	for term, counts := range other.counts {
		dst := t.Get(term)
		for g, n := range counts {
			dst[g] += n
		}
	}

	return nil
}

// addPatient credits group g once for every term in closure. closure must be
// free of duplicates.
func (t *Table) addPatient(closure []ontology.TermID, g int) {
	for _, term := range closure {
		t.Get(term)[g]++
	}
}
