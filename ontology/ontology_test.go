package ontology

import (
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/carbocation/phenocompare"
)

// A small slice of the HPO with multiple inheritance: Focal clonic seizure has
// two parents that share Seizure as an ancestor.
const testOBO = `format-version: 1.2
data-version: hp/releases/2024-01-16
ontology: hp

[Term]
id: HP:0000001
name: All

[Term]
id: HP:0000118
name: Phenotypic abnormality
is_a: HP:0000001 ! All

[Term]
id: HP:0001250
name: Seizure
def: "A seizure is an intermittent abnormality of nervous system physiology." [https://orcid.org/0000-0002-0736-9199]
is_a: HP:0000118 ! Phenotypic abnormality

[Term]
id: HP:0007359
name: Focal-onset seizure
is_a: HP:0001250 ! Seizure

[Term]
id: HP:0020221
name: Clonic seizure
is_a: HP:0001250 {source="PMID:28276060"} ! Seizure

[Term]
id: HP:0002266
name: Focal clonic seizure
is_a: HP:0007359 ! Focal-onset seizure
is_a: HP:0020221 ! Clonic seizure

[Term]
id: HP:0000252
name: Microcephaly
is_a: HP:0000118 ! Phenotypic abnormality

[Term]
id: HP:0000002
name: obsolete Abnormality of body height
is_obsolete: true

[Typedef]
id: part_of
name: part of
is_transitive: true
`

func parseTestOBO(t *testing.T) *Ontology {
	t.Helper()

	o, err := ParseOBO(strings.NewReader(testOBO), 0)
	if err != nil {
		t.Fatal(err)
	}

	return o
}

func TestParseOBO(t *testing.T) {
	o := parseTestOBO(t)

	if o.Len() != 8 {
		t.Errorf("Expected 8 terms, got %d", o.Len())
	}
	if o.FormatVersion != "1.2" || o.DataVersion != "hp/releases/2024-01-16" {
		t.Errorf("Got versions %q %q", o.FormatVersion, o.DataVersion)
	}

	term, ok := o.Term("HP:0002266")
	if !ok {
		t.Fatalf("HP:0002266 was not parsed")
	}
	if diff := cmp.Diff([]TermID{"HP:0007359", "HP:0020221"}, term.Parents); diff != "" {
		t.Errorf("Parents mismatch (-want +got):\n%s", diff)
	}

	if got := o.Label("HP:0020221"); got != "Clonic seizure" {
		t.Errorf("Got label %q", got)
	}
	if got := o.Label("part_of"); got != "" {
		t.Errorf("Typedef leaked into terms with label %q", got)
	}

	obsolete, _ := o.Term("HP:0000002")
	if !obsolete.Obsolete {
		t.Errorf("Expected HP:0000002 to be obsolete")
	}
}

func TestParseOBOBracesInName(t *testing.T) {
	input := "[Term]\nid: HP:0000001\nname: All\n\n" +
		"[Term]\nid: HP:0000002\nname: Abnormality {x} of thing\nis_a: HP:0000001 {source=\"MONDO\"} ! All\n"

	o, err := ParseOBO(strings.NewReader(input), 0)
	if err != nil {
		t.Fatal(err)
	}

	if got := o.Label("HP:0000002"); got != "Abnormality {x} of thing" {
		t.Errorf("Expected the braces in the name to be kept, got %q", got)
	}

	term, _ := o.Term("HP:0000002")
	if diff := cmp.Diff([]TermID{"HP:0000001"}, term.Parents); diff != "" {
		t.Errorf("Parents mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitTagValue(t *testing.T) {
	for _, v := range []struct {
		Line  string
		Tag   string
		Value string
	}{
		{"is_a: HP:0000118 {source=x} ! Phenotypic abnormality", "is_a", "HP:0000118"},
		{"is_a: HP:0000118 ! Phenotypic abnormality", "is_a", "HP:0000118"},
		{"name: Abnormality {x} of thing", "name", "Abnormality {x} of thing"},
		{"name: Seizure {comment=\"x\"}", "name", "Seizure"},
		{"id: HP:0001250", "id", "HP:0001250"},
	} {
		tag, value, ok := splitTagValue(v.Line)
		if !ok || tag != v.Tag || value != v.Value {
			t.Errorf("%q: got %q, %q, %v", v.Line, tag, value, ok)
		}
	}
}

func TestParseOBOTermWithoutID(t *testing.T) {
	input := "format-version: 1.2\n\n[Term]\nname: nameless\n\n[Term]\nid: HP:0000001\n"

	_, err := ParseOBO(strings.NewReader(input), 0)

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected a ParseError, got %v", err)
	}
	if pe.Line != 3 {
		t.Errorf("Expected the error on line 3, got %d", pe.Line)
	}
}

func TestParseOBODuplicateTerm(t *testing.T) {
	input := "[Term]\nid: HP:0000001\n\n[Term]\nid: HP:0000001\n"

	if _, err := ParseOBO(strings.NewReader(input), 0); err == nil {
		t.Errorf("Expected an error for a duplicated term")
	}
}

func TestAncestorClosure(t *testing.T) {
	o := parseTestOBO(t)

	for _, v := range []struct {
		Term     TermID
		Expected []TermID
	}{
		{"HP:0000001", []TermID{"HP:0000001"}},
		{"HP:0001250", []TermID{"HP:0000001", "HP:0000118", "HP:0001250"}},
		// Two paths to Seizure, which must appear once
		{"HP:0002266", []TermID{"HP:0000001", "HP:0000118", "HP:0001250", "HP:0002266", "HP:0007359", "HP:0020221"}},
		{"HP:0000002", []TermID{"HP:0000002"}},
	} {
		closure, err := o.AncestorClosure(v.Term)
		if err != nil {
			t.Fatalf("%s: %v", v.Term, err)
		}
		if diff := cmp.Diff(v.Expected, closure); diff != "" {
			t.Errorf("%s closure mismatch (-want +got):\n%s", v.Term, diff)
		}

		// Second call is served from the cache and must agree
		cached, err := o.AncestorClosure(v.Term)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(closure, cached); diff != "" {
			t.Errorf("%s cached closure mismatch (-want +got):\n%s", v.Term, diff)
		}
	}
}

func TestAncestorClosureUnknownTerm(t *testing.T) {
	o := parseTestOBO(t)

	_, err := o.AncestorClosure("HP:9999999")

	var ute *UnresolvableTermError
	if !errors.As(err, &ute) {
		t.Fatalf("Expected an UnresolvableTermError, got %v", err)
	}
	if ute.Term != "HP:9999999" {
		t.Errorf("Got term %s", ute.Term)
	}
}

func TestAncestorClosureUndefinedParentAndCycle(t *testing.T) {
	o, err := New([]Term{
		{ID: "X:1", Parents: []TermID{"X:2", "X:404"}},
		{ID: "X:2", Parents: []TermID{"X:3"}},
		// Not a valid ontology, but the walk must still terminate
		{ID: "X:3", Parents: []TermID{"X:1"}},
	}, 2)
	if err != nil {
		t.Fatal(err)
	}

	closure, err := o.AncestorClosure("X:1")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]TermID{"X:1", "X:2", "X:3", "X:404"}, closure); diff != "" {
		t.Errorf("Closure mismatch (-want +got):\n%s", diff)
	}
}

func TestParseTermID(t *testing.T) {
	for input, expected := range map[string]TermID{
		"HP:0001250":     "HP:0001250",
		" HP:0001250\t":  "HP:0001250",
		"HP_0001250":     "HP:0001250",
		"MONDO:0007739":  "MONDO:0007739",
		"OMIM:601498":    "OMIM:601498",
		"HP:0001250_alt": "HP:0001250_alt",
	} {
		got, err := ParseTermID(input)
		if err != nil {
			t.Errorf("%q: %v", input, err)
			continue
		}
		if got != expected {
			t.Errorf("%q: got %s, expected %s", input, got, expected)
		}
	}

	for _, input := range []string{"", "   ", "HP", "HP:", ":0001250", "Seizure", "HP:0001 250", "term_id"} {
		if got, err := ParseTermID(input); err == nil {
			t.Errorf("%q: expected an error, got %s", input, got)
		}
	}

	if MustParseTermID("HP_0000118").Prefix() != "HP" {
		t.Errorf("Wrong prefix")
	}
}

func TestLoadGzippedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hp.obo.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := gzip.NewWriter(f)
	if _, err := zw.Write([]byte(testOBO)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	o, err := Load(context.Background(), path, nil, 0)
	if err != nil {
		t.Fatal(err)
	}
	if o.Len() != 8 {
		t.Errorf("Expected 8 terms, got %d", o.Len())
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "hp.obo"), nil, 0)

	var dsErr *phenocompare.DataSourceError
	if !errors.As(err, &dsErr) {
		t.Fatalf("Expected a DataSourceError, got %v", err)
	}
}
