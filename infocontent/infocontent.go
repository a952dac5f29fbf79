// Package infocontent computes the information content of ontology terms from
// the objects (diseases, genes) annotated with them.
package infocontent

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/montanaflynn/stats"

	"github.com/carbocation/phenocompare/ontology"
	"github.com/carbocation/phenocompare/termcount"
)

// Association links an annotated object to a term. Field names follow the
// phenotype.hpoa header.
type Association struct {
	DatabaseID string `csv:"database_id"`
	Qualifier  string `csv:"qualifier"`
	HPOID      string `csv:"hpo_id"`
	Aspect     string `csv:"aspect"`
}

// Negated reports whether the association states that the object does NOT
// have the term.
func (a Association) Negated() bool {
	return strings.EqualFold(strings.TrimSpace(a.Qualifier), "NOT")
}

// ReadAssociations parses a tab-delimited annotation file. Lines starting with
// # are comments; the first remaining line is the header. Negated
// associations are dropped.
func ReadAssociations(r io.Reader) ([]Association, error) {
	c := csv.NewReader(r)
	c.Comma = '\t'
	c.Comment = '#'
	c.LazyQuotes = true
	c.FieldsPerRecord = -1

	records := []*Association{}
	if err := gocsv.UnmarshalCSV(c, &records); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, nil
		}
		return nil, err
	}

	out := make([]Association, 0, len(records))
	for i, record := range records {
		if record.DatabaseID == "" || record.HPOID == "" {
			// +2 accounts for the header and zero indexing
			return nil, fmt.Errorf("annotation row %d: missing database_id or hpo_id", i+2)
		}
		if record.Negated() {
			continue
		}
		out = append(out, *record)
	}

	return out, nil
}

// Score is the information content of one term.
type Score struct {
	Term               ontology.TermID `csv:"term_id"`
	Objects            int             `csv:"objects"`
	InformationContent float64         `csv:"information_content"`
}

type Result struct {
	Scores []Score

	// Objects is the number of distinct objects with at least one usable
	// association.
	Objects int

	// Skipped counts associations whose term could not be parsed or
	// resolved.
	Skipped int
}

// Compute propagates every association to the ancestors of its term and
// scores each term t as -ln(objects(t) / objects), where objects(t) counts the
// distinct objects annotated to t or one of its descendants. The root of a
// connected ontology thus scores 0.
func Compute(h termcount.Hierarchy, assocs []Association) (Result, error) {
	var result Result

	termObjects := make(map[ontology.TermID]map[string]struct{})
	objects := make(map[string]struct{})

	for _, a := range assocs {
		term, err := ontology.ParseTermID(a.HPOID)
		if err != nil {
			result.Skipped++
			continue
		}

		closure, err := h.AncestorClosure(term)
		if err != nil {
			var unresolvable *ontology.UnresolvableTermError
			if errors.As(err, &unresolvable) {
				result.Skipped++
				continue
			}
			return Result{}, err
		}

		objects[a.DatabaseID] = struct{}{}
		for _, ancestor := range closure {
			set, exists := termObjects[ancestor]
			if !exists {
				set = make(map[string]struct{})
				termObjects[ancestor] = set
			}
			set[a.DatabaseID] = struct{}{}
		}
	}

	result.Objects = len(objects)
	result.Scores = make([]Score, 0, len(termObjects))
	total := float64(len(objects))
	for term, set := range termObjects {
		result.Scores = append(result.Scores, Score{
			Term:               term,
			Objects:            len(set),
			InformationContent: math.Log(total / float64(len(set))),
		})
	}
	sort.Slice(result.Scores, func(i, j int) bool { return result.Scores[i].Term < result.Scores[j].Term })

	return result, nil
}

// Write emits the scores as a tab-delimited table with a header.
func Write(w io.Writer, scores []Score) error {
	c := csv.NewWriter(w)
	c.Comma = '\t'

	return gocsv.MarshalCSV(&scores, gocsv.NewSafeCSVWriter(c))
}

type Summary struct {
	Terms  int
	Mean   float64
	Median float64
	Max    float64
}

// Summarize describes the distribution of information content. An empty
// slice yields a zero Summary.
func Summarize(scores []Score) (Summary, error) {
	if len(scores) == 0 {
		return Summary{}, nil
	}

	data := make(stats.Float64Data, len(scores))
	for i, s := range scores {
		data[i] = s.InformationContent
	}

	out := Summary{Terms: len(scores)}
	var err error
	if out.Mean, err = data.Mean(); err != nil {
		return Summary{}, err
	}
	if out.Median, err = data.Median(); err != nil {
		return Summary{}, err
	}
	if out.Max, err = data.Max(); err != nil {
		return Summary{}, err
	}

	return out, nil
}
