package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"cloud.google.com/go/bigquery"

	"github.com/carbocation/phenocompare/termcount"
)

// LongSchema describes the rows written by WriteLongTSV.
var LongSchema = bigquery.Schema{
	{Name: "term_id", Type: bigquery.StringFieldType, Required: true},
	{Name: "label", Type: bigquery.StringFieldType},
	{Name: "group_name", Type: bigquery.StringFieldType, Required: true},
	{Name: "patients", Type: bigquery.IntegerFieldType, Required: true},
}

// WriteLongTSV writes the table in long form, one row per term and group, with
// a header matching LongSchema.
func WriteLongTSV(w io.Writer, table *termcount.Table, labeler Labeler, groupNames []string) error {
	groups := names(table, groupNames)

	c := csv.NewWriter(w)
	c.Comma = '\t'

	if err := c.Write([]string{"term_id", "label", "group_name", "patients"}); err != nil {
		return err
	}

	for term, counts := range table.Entries() {
		label := labeler.Label(term)
		for g, n := range counts {
			if err := c.Write([]string{term.String(), label, groups[g], strconv.Itoa(n)}); err != nil {
				return err
			}
		}
	}

	c.Flush()

	return c.Error()
}

// SplitTableName splits "dataset.table" into its parts.
func SplitTableName(dest string) (dataset, table string, err error) {
	parts := strings.Split(dest, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("BigQuery destination %q must be formatted as dataset.table", dest)
	}

	return parts[0], parts[1], nil
}

// LoadBigQuery replaces the contents of dest ("dataset.table") with the long
// form of the table.
func LoadBigQuery(ctx context.Context, client *bigquery.Client, dest string, table *termcount.Table, labeler Labeler, groupNames []string) error {
	dataset, tableName, err := SplitTableName(dest)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := WriteLongTSV(&buf, table, labeler, groupNames); err != nil {
		return err
	}

	src := bigquery.NewReaderSource(&buf)
	src.SourceFormat = bigquery.CSV
	src.FieldDelimiter = "\t"
	src.SkipLeadingRows = 1
	src.Schema = LongSchema

	loader := client.Dataset(dataset).Table(tableName).LoaderFrom(src)
	loader.CreateDisposition = bigquery.CreateIfNeeded
	loader.WriteDisposition = bigquery.WriteTruncate

	job, err := loader.Run(ctx)
	if err != nil {
		return fmt.Errorf("starting BigQuery load into %s: %w", dest, err)
	}

	log.Printf("Loading %d terms into %s (job %s)\n", table.Len(), dest, job.ID())

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for BigQuery load into %s: %w", dest, err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("BigQuery load into %s: %w", dest, err)
	}

	return nil
}
