package ontology

import "fmt"

// UnresolvableTermError reports a term identifier that is not present in the
// ontology.
type UnresolvableTermError struct {
	Term TermID
}

func (e *UnresolvableTermError) Error() string {
	return fmt.Sprintf("term %s is not in the ontology", e.Term)
}

// ParseError reports malformed OBO input.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("obo line %d: %s", e.Line, e.Msg)
}
