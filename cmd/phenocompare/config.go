package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/carbocation/phenocompare"
	"github.com/carbocation/phenocompare/patient"
	"github.com/carbocation/phenocompare/report"
)

// Config describes one comparison run. It can be read from YAML and is
// overridden by command line flags.
type Config struct {
	HPO string `yaml:"hpo"`

	// Directory mode: one directory per group.
	Groups []patient.Source `yaml:"groups"`

	// Gene mode: one patient directory split by a gene group file.
	Patients string `yaml:"patients"`
	Genes    string `yaml:"genes"`

	Out       string `yaml:"out"`
	Format    string `yaml:"format"`
	Workers   int    `yaml:"workers"`
	CacheSize int    `yaml:"cache_size"`

	Project  string `yaml:"project"`
	BigQuery string `yaml:"bigquery"`
}

// GeneMode reports whether groups are formed from a gene group file.
func (c Config) GeneMode() bool {
	return c.Genes != ""
}

// Paths lists every input and output path of the run.
func (c Config) Paths() []string {
	out := []string{c.HPO, c.Patients, c.Genes, c.Out}
	for _, g := range c.Groups {
		out = append(out, g.Path)
	}

	return out
}

// UsesGoogleStorage reports whether any path needs a storage client.
func (c Config) UsesGoogleStorage() bool {
	for _, p := range c.Paths() {
		if phenocompare.IsGoogleStoragePath(p) {
			return true
		}
	}

	return false
}

func (c Config) Validate() error {
	if c.HPO == "" {
		return fmt.Errorf("no ontology given: set -hpo or $PHENOCOMPARE_HPO")
	}

	if c.GeneMode() {
		if c.Patients == "" {
			return fmt.Errorf("-genes requires -patients")
		}
		if len(c.Groups) > 0 {
			return fmt.Errorf("group directories and -genes are mutually exclusive")
		}
	} else {
		if len(c.Groups) != 2 {
			return fmt.Errorf("two group directories are required, got %d", len(c.Groups))
		}
		for i, g := range c.Groups {
			if g.Path == "" {
				return fmt.Errorf("no directory given for %s", patient.DefaultGroupName(i))
			}
		}
	}

	if c.Out == "" && c.BigQuery == "" {
		return fmt.Errorf("no output given: set -out and/or -bigquery")
	}
	if phenocompare.IsGoogleStoragePath(c.Out) {
		return fmt.Errorf("-out must be a local path, got %s", c.Out)
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.BigQuery != "" {
		if c.Project == "" {
			return fmt.Errorf("-bigquery requires -project or $GOOGLE_CLOUD_PROJECT")
		}
		if _, _, err := report.SplitTableName(c.BigQuery); err != nil {
			return err
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("-workers must not be negative, got %d", c.Workers)
	}

	return nil
}

// ReadConfig parses a YAML run configuration.
func ReadConfig(r io.Reader) (Config, error) {
	var c Config

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	return c, nil
}

func readConfigFile(path string) (Config, error) {
	f, err := os.Open(phenocompare.ExpandHome(path))
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	c, err := ReadConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

type flagValues struct {
	config   string
	hpo      string
	groupA   string
	groupB   string
	patients string
	genes    string
	out      string
	format   string
	workers  int
	cache    int
	project  string
	bigquery string
}

func newFlagSet(v *flagValues) *flag.FlagSet {
	fs := flag.NewFlagSet("phenocompare", flag.ContinueOnError)
	fs.StringVar(&v.config, "config", "", "Optional. YAML run configuration. Flags override its values.")
	fs.StringVar(&v.hpo, "hpo", "", "Path to hp.obo (local or gs://, may be compressed). Defaults to $PHENOCOMPARE_HPO.")
	fs.StringVar(&v.groupA, "groupa", "", "Directory of patient files for group A.")
	fs.StringVar(&v.groupB, "groupb", "", "Directory of patient files for group B.")
	fs.StringVar(&v.patients, "patients", "", "Directory of patient files to split by -genes.")
	fs.StringVar(&v.genes, "genes", "", "Gene group file: early pathway genes on the first line, late on the second, tab-delimited.")
	fs.StringVar(&v.out, "out", "", "Local file to write the count table to.")
	fs.StringVar(&v.format, "format", string(report.FormatText), "Output format: text or tsv.")
	fs.IntVar(&v.workers, "workers", 1, "Number of goroutines counting patients. 1 counts sequentially.")
	fs.IntVar(&v.cache, "cache", 0, "Number of ancestor closures to keep cached. 0 uses the default.")
	fs.StringVar(&v.project, "project", "", "Google Cloud project for BigQuery. Defaults to $GOOGLE_CLOUD_PROJECT.")
	fs.StringVar(&v.bigquery, "bigquery", "", "Optional. BigQuery destination, formatted as dataset.table, replaced by the counts.")

	return fs
}

// parseArgs builds the run configuration. Precedence, from lowest: the
// environment, the -config file, the positional arguments, explicit flags.
// The positional form is groupAdir groupBdir outFile.
func parseArgs(args []string, getenv func(string) string) (Config, error) {
	var v flagValues
	fs := newFlagSet(&v)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		HPO:     getenv("PHENOCOMPARE_HPO"),
		Project: getenv("GOOGLE_CLOUD_PROJECT"),
		Format:  v.format,
		Workers: v.workers,
	}

	if v.config != "" {
		fileCfg, err := readConfigFile(v.config)
		if err != nil {
			return Config{}, err
		}
		cfg = merge(cfg, fileCfg)
	}

	switch fs.NArg() {
	case 0:
	case 3:
		cfg.Groups = []patient.Source{{Path: fs.Arg(0)}, {Path: fs.Arg(1)}}
		cfg.Out = fs.Arg(2)
	default:
		return Config{}, fmt.Errorf("expected groupAdir groupBdir outFile, got %d positional arguments", fs.NArg())
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "hpo":
			cfg.HPO = v.hpo
		case "groupa":
			cfg.Groups = setGroupPath(cfg.Groups, 0, v.groupA)
		case "groupb":
			cfg.Groups = setGroupPath(cfg.Groups, 1, v.groupB)
		case "patients":
			cfg.Patients = v.patients
		case "genes":
			cfg.Genes = v.genes
		case "out":
			cfg.Out = v.out
		case "format":
			cfg.Format = v.format
		case "workers":
			cfg.Workers = v.workers
		case "cache":
			cfg.CacheSize = v.cache
		case "project":
			cfg.Project = v.project
		case "bigquery":
			cfg.BigQuery = v.bigquery
		}
	})

	return cfg, cfg.Validate()
}

// merge overlays the non-zero fields of top onto base.
func merge(base, top Config) Config {
	if top.HPO != "" {
		base.HPO = top.HPO
	}
	if len(top.Groups) > 0 {
		base.Groups = top.Groups
	}
	if top.Patients != "" {
		base.Patients = top.Patients
	}
	if top.Genes != "" {
		base.Genes = top.Genes
	}
	if top.Out != "" {
		base.Out = top.Out
	}
	if top.Format != "" {
		base.Format = top.Format
	}
	if top.Workers != 0 {
		base.Workers = top.Workers
	}
	if top.CacheSize != 0 {
		base.CacheSize = top.CacheSize
	}
	if top.Project != "" {
		base.Project = top.Project
	}
	if top.BigQuery != "" {
		base.BigQuery = top.BigQuery
	}

	return base
}

func setGroupPath(groups []patient.Source, i int, path string) []patient.Source {
	for len(groups) <= i {
		groups = append(groups, patient.Source{})
	}
	groups[i].Path = path

	return groups
}
