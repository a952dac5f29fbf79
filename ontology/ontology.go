// Package ontology holds a parsed term hierarchy such as the Human Phenotype
// Ontology and answers ancestor closure queries over its is_a edges.
package ontology

import (
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultClosureCacheSize is enough to keep the closure of every term a
// typical cohort is annotated with.
const DefaultClosureCacheSize = 8192

type Term struct {
	ID       TermID
	Name     string
	Parents  []TermID
	Obsolete bool
}

// Ontology is read-only once built and may be shared by any number of
// goroutines.
type Ontology struct {
	terms map[TermID]*Term

	FormatVersion string
	DataVersion   string

	closures *lru.Cache[TermID, []TermID]
}

// New builds an Ontology from terms. Parents need not be defined: the
// hierarchy is not validated. A cacheSize below 1 uses
// DefaultClosureCacheSize.
func New(terms []Term, cacheSize int) (*Ontology, error) {
	if cacheSize < 1 {
		cacheSize = DefaultClosureCacheSize
	}

	cache, err := lru.New[TermID, []TermID](cacheSize)
	if err != nil {
		return nil, err
	}

	o := &Ontology{
		terms:    make(map[TermID]*Term, len(terms)),
		closures: cache,
	}

	for i := range terms {
		term := terms[i]
		if _, exists := o.terms[term.ID]; exists {
			return nil, fmt.Errorf("term %s is defined more than once", term.ID)
		}
		o.terms[term.ID] = &term
	}

	return o, nil
}

// Len returns the number of defined terms.
func (o *Ontology) Len() int {
	return len(o.terms)
}

func (o *Ontology) Term(id TermID) (Term, bool) {
	term, exists := o.terms[id]
	if !exists {
		return Term{}, false
	}

	return *term, true
}

// Label returns the human readable name of the term, or an empty string for
// terms that are not defined.
func (o *Ontology) Label(id TermID) string {
	if term, exists := o.terms[id]; exists {
		return term.Name
	}

	return ""
}

// Terms returns every defined term identifier in ascending order.
func (o *Ontology) Terms() []TermID {
	out := make([]TermID, 0, len(o.terms))
	for id := range o.terms {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// AncestorClosure returns id together with every term reachable from it by
// following is_a edges upwards, sorted ascending and free of duplicates even
// when several paths lead to the same ancestor. The returned slice is shared
// with the cache and must not be modified.
func (o *Ontology) AncestorClosure(id TermID) ([]TermID, error) {
	if closure, ok := o.closures.Get(id); ok {
		return closure, nil
	}

	if _, exists := o.terms[id]; !exists {
		return nil, &UnresolvableTermError{Term: id}
	}

	seen := map[TermID]struct{}{id: {}}
	queue := []TermID{id}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		term, exists := o.terms[current]
		if !exists {
			// Referenced as a parent but never defined
			continue
		}

		for _, parent := range term.Parents {
			if _, visited := seen[parent]; visited {
				continue
			}
			seen[parent] = struct{}{}
			queue = append(queue, parent)
		}
	}

	closure := make([]TermID, 0, len(seen))
	for ancestor := range seen {
		closure = append(closure, ancestor)
	}
	sort.Slice(closure, func(i, j int) bool { return closure[i] < closure[j] })

	o.closures.Add(id, closure)

	return closure, nil
}
