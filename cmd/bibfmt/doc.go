// Command bibfmt expands field templates, renders bibliography databases
// through templates and manages linked files from the terminal.
//
//	bibfmt --db refs.yaml expand "[author:lastnames] ([year])"
//	bibfmt --db refs.yaml render markdown
//	bibfmt --db refs.yaml link edit --key HipKro03
package main
