// hpoic computes the information content of every HPO term from an
// annotation file such as phenotype.hpoa. Each term scores -ln(p), where p is
// the fraction of annotated objects carrying the term or one of its
// descendants.
package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log"
	"os"

	"cloud.google.com/go/storage"
	"github.com/joho/godotenv"

	"github.com/carbocation/phenocompare"
	_ "github.com/carbocation/phenocompare/compileinfoprint"
	"github.com/carbocation/phenocompare/infocontent"
	"github.com/carbocation/phenocompare/ontology"
	"github.com/carbocation/phenocompare/report"
)

func main() {
	_ = godotenv.Load()

	var (
		hpoPath         string
		annotationsPath string
		outPath         string
		cacheSize       int
	)

	flag.StringVar(&hpoPath, "hpo", os.Getenv("PHENOCOMPARE_HPO"), "Path to hp.obo (local or gs://, may be compressed). Defaults to $PHENOCOMPARE_HPO.")
	flag.StringVar(&annotationsPath, "annotations", "", "Path to the annotation file, e.g., phenotype.hpoa (local or gs://, may be compressed).")
	flag.StringVar(&outPath, "out", "", "Optional. Local file to write to. If not set, writes to stdout.")
	flag.IntVar(&cacheSize, "cache", 0, "Number of ancestor closures to keep cached. 0 uses the default.")
	flag.Parse()

	if hpoPath == "" || annotationsPath == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(context.Background(), hpoPath, annotationsPath, outPath, cacheSize); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context, hpoPath, annotationsPath, outPath string, cacheSize int) error {
	var gcs *storage.Client
	if phenocompare.IsGoogleStoragePath(hpoPath) || phenocompare.IsGoogleStoragePath(annotationsPath) {
		var err error
		gcs, err = storage.NewClient(ctx)
		if err != nil {
			return err
		}
		defer gcs.Close()
	}

	hpo, err := ontology.Load(ctx, hpoPath, gcs, cacheSize)
	if err != nil {
		return err
	}

	assocs, err := readAssociations(ctx, annotationsPath, gcs)
	if err != nil {
		return err
	}

	result, err := infocontent.Compute(hpo, assocs)
	if err != nil {
		return err
	}
	if result.Skipped > 0 {
		log.Printf("Skipped %d associations with terms missing from %s\n", result.Skipped, hpoPath)
	}

	summary, err := infocontent.Summarize(result.Scores)
	if err != nil {
		return err
	}
	log.Printf("Scored %d terms over %d objects: mean %.3f, median %.3f, max %.3f\n", summary.Terms, result.Objects, summary.Mean, summary.Median, summary.Max)

	render := func(w io.Writer) error { return infocontent.Write(w, result.Scores) }

	if outPath == "" {
		stdout := bufio.NewWriter(os.Stdout)
		if err := render(stdout); err != nil {
			return err
		}
		return stdout.Flush()
	}

	return report.WriteFile(phenocompare.ExpandHome(outPath), render)
}

func readAssociations(ctx context.Context, path string, gcs *storage.Client) ([]infocontent.Association, error) {
	log.Println("Reading annotations from", path)

	rc, err := phenocompare.OpenSource(ctx, path, gcs)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	assocs, err := infocontent.ReadAssociations(rc)
	if err != nil {
		return nil, &phenocompare.DataSourceError{Source: path, Err: err}
	}

	log.Printf("Read %d associations\n", len(assocs))

	return assocs, nil
}
