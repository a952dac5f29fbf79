// phenocompare counts, for every HPO term, how many patients in each of two
// groups exhibit that term or one of its descendants.
//
// Groups are either two directories of patient files:
//
//	phenocompare -hpo hp.obo -groupa early/ -groupb late/ -out counts.txt
//	phenocompare early/ late/ counts.txt
//
// or one directory split by the pathway group of each patient's gene:
//
//	phenocompare -hpo hp.obo -patients patients/ -genes genegroups.tsv -out counts.tsv -format tsv
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"

	"github.com/carbocation/phenocompare"
	_ "github.com/carbocation/phenocompare/compileinfoprint"
	"github.com/carbocation/phenocompare/ontology"
	"github.com/carbocation/phenocompare/patient"
	"github.com/carbocation/phenocompare/report"
	"github.com/carbocation/phenocompare/termcount"
)

func main() {
	_ = godotenv.Load()

	cfg, err := parseArgs(os.Args[1:], os.Getenv)
	if err != nil {
		if !errors.Is(err, flag.ErrHelp) {
			fmt.Fprintln(os.Stderr, err)
		}
		fs := newFlagSet(&flagValues{})
		fs.SetOutput(os.Stderr)
		fs.PrintDefaults()
		os.Exit(1)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, cfg Config) error {
	var gcs *storage.Client
	if cfg.UsesGoogleStorage() {
		var err error
		gcs, err = storage.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("connecting to Google Storage: %w", err)
		}
		defer gcs.Close()
	}

	hpo, err := ontology.Load(ctx, cfg.HPO, gcs, cfg.CacheSize)
	if err != nil {
		return err
	}

	groups, err := grouper(cfg, gcs).Groups(ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)

		summary, err := g.Summary()
		if err != nil {
			return err
		}
		log.Printf("%s: %d patients, %d annotations (mean %.1f, median %.1f per patient)\n", g.Name, summary.Patients, summary.Annotations, summary.Mean, summary.Median)
	}

	table, err := termcount.AggregateConcurrent(ctx, hpo, groups, cfg.Workers)
	if err != nil {
		return err
	}
	log.Printf("Counted %d terms\n", table.Len())

	if cfg.Out != "" {
		format, err := report.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}

		out := phenocompare.ExpandHome(cfg.Out)
		if err := report.WriteFile(out, report.Renderer(format, table, hpo, names)); err != nil {
			return err
		}
		log.Println("Wrote", out)
	}

	if cfg.BigQuery != "" {
		bq, err := bigquery.NewClient(ctx, cfg.Project)
		if err != nil {
			return fmt.Errorf("connecting to BigQuery: %w", err)
		}
		defer bq.Close()

		if err := report.LoadBigQuery(ctx, bq, cfg.BigQuery, table, hpo, names); err != nil {
			return err
		}
		log.Println("Loaded counts into", cfg.BigQuery)
	}

	return nil
}

func grouper(cfg Config, gcs *storage.Client) patient.Grouper {
	loader := patient.Loader{Storage: gcs}

	if cfg.GeneMode() {
		return patient.GeneGrouper{
			Loader:     loader,
			PatientDir: cfg.Patients,
			GeneFile:   cfg.Genes,
		}
	}

	return patient.DirectoryGrouper{
		Loader:  loader,
		Sources: cfg.Groups,
	}
}
