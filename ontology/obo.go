package ontology

import (
	"bufio"
	"context"
	"io"
	"log"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"

	"github.com/carbocation/phenocompare"
)

const (
	stanzaHeader = iota
	stanzaTerm
	stanzaOther
)

// ParseOBO reads the [Term] stanzas of an OBO 1.2 or 1.4 file. Only id, name,
// is_a and is_obsolete tags are interpreted; other stanza types such as
// [Typedef] are skipped.
func ParseOBO(r io.Reader, cacheSize int) (*Ontology, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var (
		terms         []Term
		current       *Term
		currentLine   int
		state         = stanzaHeader
		formatVersion string
		dataVersion   string
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		if current.ID == "" {
			return &ParseError{Line: currentLine, Msg: "[Term] stanza has no id"}
		}
		terms = append(terms, *current)
		current = nil
		return nil
	}

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "!") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			if err := flush(); err != nil {
				return nil, err
			}

			if line == "[Term]" {
				state = stanzaTerm
				current = &Term{}
				currentLine = lineNo
			} else {
				state = stanzaOther
			}
			continue
		}

		tag, value, ok := splitTagValue(line)
		if !ok {
			if state != stanzaTerm {
				continue
			}
			return nil, &ParseError{Line: lineNo, Msg: "expected tag: value, got " + line}
		}

		switch state {
		case stanzaHeader:
			switch tag {
			case "format-version":
				formatVersion = value
			case "data-version":
				dataVersion = value
			}

		case stanzaTerm:
			switch tag {
			case "id":
				id, err := ParseTermID(value)
				if err != nil {
					return nil, &ParseError{Line: lineNo, Msg: err.Error()}
				}
				current.ID = id
			case "name":
				current.Name = value
			case "is_a":
				parent, err := ParseTermID(value)
				if err != nil {
					return nil, &ParseError{Line: lineNo, Msg: err.Error()}
				}
				current.Parents = append(current.Parents, parent)
			case "is_obsolete":
				current.Obsolete = value == "true"
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}
	if err := flush(); err != nil {
		return nil, err
	}

	o, err := New(terms, cacheSize)
	if err != nil {
		return nil, err
	}
	o.FormatVersion = formatVersion
	o.DataVersion = dataVersion

	return o, nil
}

// splitTagValue splits "is_a: HP:0000118 {source=x} ! Phenotypic abnormality"
// into the tag and its bare value. Only a modifier block that closes the
// value is removed, so braces inside a name survive.
func splitTagValue(line string) (string, string, bool) {
	tag, value, ok := strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}

	if i := strings.Index(value, " !"); i >= 0 {
		value = value[:i]
	}
	value = strings.TrimSpace(value)
	if strings.HasSuffix(value, "}") {
		if i := strings.LastIndex(value, "{"); i >= 0 {
			value = value[:i]
		}
	}

	return strings.TrimSpace(tag), strings.TrimSpace(value), true
}

// Load opens an OBO file from disk or Google Storage, decompressing it if
// needed, and parses it. Failing to open the file is a
// *phenocompare.DataSourceError, as is malformed content.
func Load(ctx context.Context, path string, client *storage.Client, cacheSize int) (*Ontology, error) {
	log.Println("Reading ontology from OBO file", path)

	rc, err := phenocompare.OpenSource(ctx, path, client)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	o, err := ParseOBO(rc, cacheSize)
	if err != nil {
		return nil, &phenocompare.DataSourceError{Source: path, Err: err}
	}

	log.Printf("Read %d terms (format-version %q, data-version %q)\n", o.Len(), o.FormatVersion, o.DataVersion)

	return o, nil
}
