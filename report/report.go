// Package report renders a term count table for people and for downstream
// tools.
package report

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/carbocation/phenocompare/ontology"
	"github.com/carbocation/phenocompare/patient"
	"github.com/carbocation/phenocompare/termcount"
)

// Labeler supplies the human readable name of a term. *ontology.Ontology
// satisfies it.
type Labeler interface {
	Label(term ontology.TermID) string
}

// Format selects a renderer.
type Format string

const (
	FormatText Format = "text"
	FormatTSV  Format = "tsv"
)

// ParseFormat accepts "text" and "tsv".
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatTSV:
		return Format(s), nil
	}

	return "", fmt.Errorf("unknown output format %q, expected %q or %q", s, FormatText, FormatTSV)
}

// Renderer returns a function that writes table in format f.
func Renderer(f Format, table *termcount.Table, labeler Labeler, groupNames []string) func(io.Writer) error {
	if f == FormatTSV {
		return func(w io.Writer) error { return WriteTSV(w, table, labeler, groupNames) }
	}

	return func(w io.Writer) error { return WriteText(w, table, labeler, groupNames) }
}

// names fills in groupA, groupB, ... for missing group names.
func names(table *termcount.Table, groupNames []string) []string {
	out := make([]string, table.Groups())
	for i := range out {
		if i < len(groupNames) && groupNames[i] != "" {
			out[i] = groupNames[i]
		} else {
			out[i] = patient.DefaultGroupName(i)
		}
	}

	return out
}

// WriteText writes one line per term in ascending term order:
//
//	HP:0001250	Seizure	groupA: 12	groupB: 3
func WriteText(w io.Writer, table *termcount.Table, labeler Labeler, groupNames []string) error {
	groups := names(table, groupNames)
	bw := bufio.NewWriter(w)

	for term, counts := range table.Entries() {
		if _, err := fmt.Fprintf(bw, "%s\t%s", term, labeler.Label(term)); err != nil {
			return err
		}
		for i, n := range counts {
			if _, err := fmt.Fprintf(bw, "\t%s: %d", groups[i], n); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// WriteTSV writes a header of term_id, label and the group names, followed by
// one row per term in ascending term order.
func WriteTSV(w io.Writer, table *termcount.Table, labeler Labeler, groupNames []string) error {
	c := csv.NewWriter(w)
	c.Comma = '\t'

	if err := c.Write(append([]string{"term_id", "label"}, names(table, groupNames)...)); err != nil {
		return err
	}

	row := make([]string, 2+table.Groups())
	for term, counts := range table.Entries() {
		row[0] = term.String()
		row[1] = labeler.Label(term)
		for i, n := range counts {
			row[2+i] = strconv.Itoa(n)
		}
		if err := c.Write(row); err != nil {
			return err
		}
	}

	c.Flush()

	return c.Error()
}
