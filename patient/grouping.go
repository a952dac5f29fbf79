package patient

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/carbocation/phenocompare"
)

// Source names one cohort directory.
type Source struct {
	Name string
	Path string
}

// DirectoryGrouper builds one group per directory, in the order given. This is
// the reference way of forming the two cohorts.
type DirectoryGrouper struct {
	Loader  Loader
	Sources []Source
}

// DefaultGroupName names the i'th group groupA, groupB, ...
func DefaultGroupName(i int) string {
	return fmt.Sprintf("group%c", 'A'+i)
}

func (d DirectoryGrouper) Groups(ctx context.Context) ([]Group, error) {
	out := make([]Group, 0, len(d.Sources))
	for i, src := range d.Sources {
		name := src.Name
		if name == "" {
			name = DefaultGroupName(i)
		}

		log.Printf("Reading patient files for %s from %s\n", name, src.Path)
		patients, err := d.Loader.Load(ctx, src.Path)
		if err != nil {
			return nil, err
		}

		out = append(out, Group{Name: name, Patients: patients})
	}

	return out, nil
}

// GeneGroups holds the two sets of gene symbols that split patients by where
// their causal gene acts in a biochemical pathway.
type GeneGroups struct {
	Early map[string]struct{}
	Late  map[string]struct{}
}

// ReadGeneGroups parses a gene group file: the first line lists the early
// pathway genes, the second line the late pathway genes, each tab separated.
// Further lines are ignored. If either set ends up empty, an *EmptyGroupError
// is returned.
func ReadGeneGroups(r io.Reader) (GeneGroups, error) {
	out := GeneGroups{
		Early: make(map[string]struct{}),
		Late:  make(map[string]struct{}),
	}

	scanner := bufio.NewScanner(r)
	for i, set := range []map[string]struct{}{out.Early, out.Late} {
		if !scanner.Scan() {
			break
		}
		for _, gene := range strings.Split(scanner.Text(), "\t") {
			if gene = strings.TrimSpace(gene); gene != "" {
				set[gene] = struct{}{}
			}
		}
		if len(set) == 0 {
			return out, &EmptyGroupError{Index: i, Name: geneGroupNames[i]}
		}
	}
	if err := scanner.Err(); err != nil {
		return out, pfx.Err(err)
	}

	if len(out.Early) == 0 {
		return out, &EmptyGroupError{Index: 0, Name: geneGroupNames[0]}
	}
	if len(out.Late) == 0 {
		return out, &EmptyGroupError{Index: 1, Name: geneGroupNames[1]}
	}

	return out, nil
}

var geneGroupNames = [2]string{"early", "late"}

// IsEarlyGene reports whether gene belongs to the early part of the pathway.
func (g GeneGroups) IsEarlyGene(gene string) bool {
	_, exists := g.Early[gene]
	return exists
}

// IsLateGene reports whether gene belongs to the late part of the pathway.
func (g GeneGroups) IsLateGene(gene string) bool {
	_, exists := g.Late[gene]
	return exists
}

// Partition splits patients into the early and late groups by their Gene.
// Patients whose gene is in neither set are returned separately.
func (g GeneGroups) Partition(patients []Patient) (groups []Group, unassigned []Patient) {
	early := Group{Name: geneGroupNames[0], Patients: make([]Patient, 0)}
	late := Group{Name: geneGroupNames[1], Patients: make([]Patient, 0)}

	for _, p := range patients {
		switch {
		case g.IsEarlyGene(p.Gene):
			early.Patients = append(early.Patients, p)
		case g.IsLateGene(p.Gene):
			late.Patients = append(late.Patients, p)
		default:
			unassigned = append(unassigned, p)
		}
	}

	return []Group{early, late}, unassigned
}

// GeneGrouper forms the early and late groups from a single patient directory
// and a gene group file.
type GeneGrouper struct {
	Loader     Loader
	PatientDir string
	GeneFile   string
}

func (g GeneGrouper) Groups(ctx context.Context) ([]Group, error) {
	rc, err := phenocompare.OpenSource(ctx, g.GeneFile, g.Loader.Storage)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	genes, err := ReadGeneGroups(rc)
	if err != nil {
		return nil, err
	}
	log.Printf("Read %d early and %d late pathway genes from %s\n", len(genes.Early), len(genes.Late), g.GeneFile)

	patients, err := g.Loader.Load(ctx, g.PatientDir)
	if err != nil {
		return nil, err
	}

	groups, unassigned := genes.Partition(patients)
	if len(unassigned) > 0 {
		log.Printf("%d of %d patients in %s have no gene from either pathway group and were skipped\n", len(unassigned), len(patients), g.PatientDir)
	}

	return groups, nil
}
