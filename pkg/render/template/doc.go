// Package template defines the renderer contract the export layer depends on.
// The pongo2 implementation lives in the gotemplate subpackage.
package template
