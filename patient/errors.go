package patient

import "fmt"

// EmptyGroupError reports a group without patients. Comparing against an
// empty group yields a table that looks meaningful but is not, so it is
// rejected before any counting.
type EmptyGroupError struct {
	Index int
	Name  string
}

func (e *EmptyGroupError) Error() string {
	return fmt.Sprintf("group %d (%s) has no patients", e.Index, e.Name)
}
