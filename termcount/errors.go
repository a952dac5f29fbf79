package termcount

import (
	"fmt"

	"github.com/carbocation/phenocompare/ontology"
	"github.com/carbocation/phenocompare/patient"
)

// UnknownTermError reports a patient annotated with a term that the hierarchy
// cannot resolve. It unwraps to the hierarchy's error.
type UnknownTermError struct {
	Group   string
	Patient string
	Term    ontology.TermID
	Err     error
}

func (e *UnknownTermError) Error() string {
	return fmt.Sprintf("patient %s in %s is annotated with %s: %v", e.Patient, e.Group, e.Term, e.Err)
}

func (e *UnknownTermError) Unwrap() error {
	return e.Err
}

func newUnknownTermError(group patient.Group, g int, p patient.Patient, term ontology.TermID, err error) error {
	name := group.Name
	if name == "" {
		name = patient.DefaultGroupName(g)
	}

	return &UnknownTermError{
		Group:   name,
		Patient: p.ID,
		Term:    term,
		Err:     err,
	}
}
