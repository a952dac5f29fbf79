package patient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"

	"github.com/carbocation/phenocompare"
	"github.com/carbocation/phenocompare/ontology"
)

// Delimiters accepted between the columns of a patient file. Colons occur
// inside term identifiers and are never a delimiter.
const patientDelimiters = "\t,;|"

// Parse reads one patient file. The format is:
//
//	# patient: P001
//	# gene: PEX1
//	term_id	label
//	HP:0001250	Seizure
//	HP:0000252	Microcephaly
//
// Lines starting with '#' are comments; "# key: value" comments with the keys
// patient (or id) and gene set metadata. Of the remaining rows only the first
// column is used. A first row whose first column holds no digits is taken to
// be a header; any other malformed term is an error naming its line. id is
// used unless the file declares its own.
func Parse(id string, r io.Reader) (Patient, error) {
	p := Patient{ID: id}

	var (
		body     bytes.Buffer
		sawTab   bool
		rowLines []int
	)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") {
			key, value, ok := strings.Cut(strings.TrimLeft(trimmed, "# "), ":")
			if !ok {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(key)) {
			case "patient", "id":
				if v := strings.TrimSpace(value); v != "" {
					p.ID = v
				}
			case "gene":
				p.Gene = strings.TrimSpace(value)
			}
			continue
		}

		if trimmed == "" {
			continue
		}

		sawTab = sawTab || strings.Contains(line, "\t")
		rowLines = append(rowLines, lineNo)
		body.WriteString(line)
		body.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return p, pfx.Err(err)
	}

	fallback := ','
	if sawTab {
		fallback = '\t'
	}
	delimiter := phenocompare.DetermineDelimiterAmong(bytes.NewReader(body.Bytes()), patientDelimiters, fallback)

	cr := csv.NewReader(&body)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	terms := make([]ontology.TermID, 0, len(rowLines))
	for row := 0; ; row++ {
		cols, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return p, err
		}

		if len(cols) < 1 || strings.TrimSpace(cols[0]) == "" {
			continue
		}

		term, err := ontology.ParseTermID(cols[0])
		if err != nil {
			if row == 0 && isHeader(cols[0]) {
				continue
			}
			return p, fmt.Errorf("line %d: %w", rowLines[row], err)
		}

		terms = append(terms, term)
	}

	p.Terms = uniqueTerms(terms)

	return p, nil
}

// isHeader reports whether a first column that is not a term identifier names
// the column instead. Column names carry no digits, so a mistyped accession
// such as HP0001250 is not mistaken for one.
func isHeader(col string) bool {
	return !strings.ContainsAny(col, "0123456789")
}

// Loader reads a directory of patient files, one patient per file. Files may
// be compressed. Directories may be local or, with a Storage client, gs://
// prefixes.
type Loader struct {
	Storage *storage.Client
}

// Load reads every patient file in dir in file name order. The patient ID
// defaults to the file name without extensions. Any file that cannot be read
// or parsed aborts the load with a *phenocompare.DataSourceError naming the
// file.
func (l Loader) Load(ctx context.Context, dir string) ([]Patient, error) {
	files, err := phenocompare.ListSource(ctx, dir, l.Storage)
	if err != nil {
		return nil, err
	}

	out := make([]Patient, 0, len(files))
	for _, file := range files {
		p, err := l.loadFile(ctx, file)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}

	return out, nil
}

func (l Loader) loadFile(ctx context.Context, file string) (Patient, error) {
	rc, err := phenocompare.OpenSource(ctx, file, l.Storage)
	if err != nil {
		return Patient{}, err
	}
	defer rc.Close()

	p, err := Parse(phenocompare.BaseName(file), rc)
	if err != nil {
		return Patient{}, &phenocompare.DataSourceError{Source: file, Err: err}
	}

	return p, nil
}
