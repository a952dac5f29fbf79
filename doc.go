// Package phenocompare holds the I/O helpers shared by the phenocompare
// programs: opening local or gs:// sources, transparent decompression,
// delimiter detection and directory listing.
//
// The comparison itself lives in the subpackages: ontology parses the Human
// Phenotype Ontology, patient loads annotated cohorts, termcount tallies how
// many patients of each cohort fall under every term, and report renders the
// result.
package phenocompare
