// Package entry defines the bibliographic record contract consumed by the
// template expander and the concrete Entry/Database types used by the CLI and
// tests. Field names are case-insensitive throughout; citation keys are
// case-sensitive, matching how BibTeX tools treat them.
//
// Records are read-only to consumers. ResolveField layers the lookup rules a
// database context adds on top of a bare record: the bibtexkey and
// bibtextype pseudo-fields, crossref inheritance, and #name# string constant
// references.
package entry
