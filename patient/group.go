package patient

import (
	"context"

	"github.com/montanaflynn/stats"
)

// Group is one named cohort.
type Group struct {
	Name     string
	Patients []Patient
}

func (g Group) Len() int {
	return len(g.Patients)
}

// GroupSummary describes how densely a group is annotated.
type GroupSummary struct {
	Patients    int
	Annotations int
	Mean        float64
	Median      float64
}

// Summary counts the group's patients and their directly annotated terms. An
// empty group has a zero summary.
func (g Group) Summary() (GroupSummary, error) {
	out := GroupSummary{Patients: len(g.Patients)}
	if len(g.Patients) == 0 {
		return out, nil
	}

	perPatient := make(stats.Float64Data, 0, len(g.Patients))
	for _, p := range g.Patients {
		out.Annotations += len(p.Terms)
		perPatient = append(perPatient, float64(len(p.Terms)))
	}

	var err error
	if out.Mean, err = perPatient.Mean(); err != nil {
		return out, err
	}
	if out.Median, err = perPatient.Median(); err != nil {
		return out, err
	}

	return out, nil
}

// Grouper produces the ordered, named patient groups to compare. Directory and
// gene pathway grouping both satisfy it.
type Grouper interface {
	Groups(ctx context.Context) ([]Group, error)
}

// CheckNonEmpty returns an *EmptyGroupError for the first group that has no
// patients.
func CheckNonEmpty(groups []Group) error {
	for i, g := range groups {
		if g.Len() == 0 {
			return &EmptyGroupError{Index: i, Name: g.Name}
		}
	}

	return nil
}
