package phenocompare

import "fmt"

// DataSourceError reports that an ontology, patient or annotation source could
// not be read. It is fatal for a run: nothing is aggregated from a source that
// failed to load.
type DataSourceError struct {
	Source string
	Err    error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Source, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}
