package infocontent

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/carbocation/phenocompare/ontology"
)

// All <- Abnormality <- Seizure, All <- Growth
func testOntology(t *testing.T) *ontology.Ontology {
	t.Helper()

	o, err := ontology.New([]ontology.Term{
		{ID: "HP:0000001", Name: "All"},
		{ID: "HP:0000118", Name: "Phenotypic abnormality", Parents: []ontology.TermID{"HP:0000001"}},
		{ID: "HP:0001250", Name: "Seizure", Parents: []ontology.TermID{"HP:0000118"}},
		{ID: "HP:0001507", Name: "Growth abnormality", Parents: []ontology.TermID{"HP:0000118"}},
	}, 0)
	if err != nil {
		t.Fatal(err)
	}

	return o
}

const testHPOA = `#description: "HPO annotations for rare diseases"
#date: 2024-01-01
database_id	disease_name	qualifier	hpo_id	reference	evidence	onset	frequency	sex	modifier	aspect	biocuration
OMIM:1	First		HP:0001250	PMID:1	PCS					P	HPO:curator
OMIM:1	First		HP:0001507	PMID:1	PCS					P	HPO:curator
OMIM:2	Second		HP:0001507	PMID:2	PCS					P	HPO:curator
OMIM:2	Second	NOT	HP:0001250	PMID:2	PCS					P	HPO:curator
OMIM:3	Third		HP:9999999	PMID:3	IEA					P	HPO:curator
`

func TestReadAssociations(t *testing.T) {
	assocs, err := ReadAssociations(strings.NewReader(testHPOA))
	if err != nil {
		t.Fatal(err)
	}

	expected := []Association{
		{DatabaseID: "OMIM:1", HPOID: "HP:0001250", Aspect: "P"},
		{DatabaseID: "OMIM:1", HPOID: "HP:0001507", Aspect: "P"},
		{DatabaseID: "OMIM:2", HPOID: "HP:0001507", Aspect: "P"},
		{DatabaseID: "OMIM:3", HPOID: "HP:9999999", Aspect: "P"},
	}
	if diff := cmp.Diff(expected, assocs); diff != "" {
		t.Errorf("ReadAssociations mismatch (-want +got):\n%s", diff)
	}
}

func TestReadAssociationsEmpty(t *testing.T) {
	assocs, err := ReadAssociations(strings.NewReader("#only a comment\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(assocs) != 0 {
		t.Errorf("Expected no associations, got %d", len(assocs))
	}
}

func TestReadAssociationsMissingColumns(t *testing.T) {
	input := "disease\tterm\nOMIM:1\tHP:0001250\n"
	if _, err := ReadAssociations(strings.NewReader(input)); err == nil {
		t.Error("Expected an error for a file without database_id and hpo_id columns")
	}
}

func TestCompute(t *testing.T) {
	assocs, err := ReadAssociations(strings.NewReader(testHPOA))
	if err != nil {
		t.Fatal(err)
	}

	result, err := Compute(testOntology(t), assocs)
	if err != nil {
		t.Fatal(err)
	}

	if result.Objects != 2 {
		t.Errorf("Expected 2 objects, got %d", result.Objects)
	}
	if result.Skipped != 1 {
		t.Errorf("Expected 1 skipped association, got %d", result.Skipped)
	}

	expected := []Score{
		{Term: "HP:0000001", Objects: 2, InformationContent: 0},
		{Term: "HP:0000118", Objects: 2, InformationContent: 0},
		{Term: "HP:0001250", Objects: 1, InformationContent: math.Ln2},
		{Term: "HP:0001507", Objects: 2, InformationContent: 0},
	}
	if diff := cmp.Diff(expected, result.Scores, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Compute mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeSkipsMalformedTerms(t *testing.T) {
	result, err := Compute(testOntology(t), []Association{
		{DatabaseID: "OMIM:1", HPOID: "not a term"},
		{DatabaseID: "OMIM:1", HPOID: "HP:0001250"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped != 1 || result.Objects != 1 {
		t.Errorf("Got %d skipped and %d objects", result.Skipped, result.Objects)
	}
}

type failingHierarchy struct{ err error }

func (f failingHierarchy) AncestorClosure(ontology.TermID) ([]ontology.TermID, error) {
	return nil, f.err
}

func TestComputeHierarchyFailure(t *testing.T) {
	broken := errors.New("broken")
	_, err := Compute(failingHierarchy{err: broken}, []Association{{DatabaseID: "OMIM:1", HPOID: "HP:0001250"}})
	if !errors.Is(err, broken) {
		t.Errorf("Expected the hierarchy error, got %v", err)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []Score{
		{Term: "HP:0000001", Objects: 4, InformationContent: 0},
		{Term: "HP:0001250", Objects: 1, InformationContent: 1.5},
	})
	if err != nil {
		t.Fatal(err)
	}

	expected := "term_id\tobjects\tinformation_content\n" +
		"HP:0000001\t4\t0\n" +
		"HP:0001250\t1\t1.5\n"
	if diff := cmp.Diff(expected, buf.String()); diff != "" {
		t.Errorf("Write mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarize(t *testing.T) {
	summary, err := Summarize([]Score{
		{InformationContent: 0},
		{InformationContent: 1},
		{InformationContent: 5},
	})
	if err != nil {
		t.Fatal(err)
	}

	expected := Summary{Terms: 3, Mean: 2, Median: 1, Max: 5}
	if summary != expected {
		t.Errorf("Expected %+v, got %+v", expected, summary)
	}

	empty, err := Summarize(nil)
	if err != nil {
		t.Fatal(err)
	}
	if empty != (Summary{}) {
		t.Errorf("Expected a zero summary, got %+v", empty)
	}
}
