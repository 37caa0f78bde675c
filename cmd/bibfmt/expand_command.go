package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-bibfmt/pkg/expand"
)

func newExpandCommand(ctx *commandContext) *cobra.Command {
	var (
		keys    []string
		asTable bool
	)

	cmd := &cobra.Command{
		Use:   "expand TEMPLATE",
		Short: "Expand a field template such as \"[author:lower] ([year])\" for each entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database(cmd)
			if err != nil {
				return err
			}
			exp, err := ctx.expander()
			if err != nil {
				return err
			}
			entries, err := selectEntries(db, keys)
			if err != nil {
				return err
			}

			tmpl := expand.Compile(args[0])
			out := cmd.OutOrStdout()
			if !asTable {
				for _, e := range entries {
					fmt.Fprintln(out, tmpl.Execute(exp, e, db))
				}
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for idx, e := range entries {
				key, _ := e.CitationKey()
				rows = append(rows, []string{strconv.Itoa(idx + 1), key, tmpl.Execute(exp, e, db)})
			}
			fmt.Fprintln(out, renderTable([]string{"#", "Key", "Result"}, rows, []columnAlignment{alignRight, alignLeft, alignLeft}))
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&keys, "key", "k", nil, "Citation keys to expand (default: all entries)")
	cmd.Flags().BoolVar(&asTable, "table", false, "Print a table of keys and results")
	return cmd
}

func newFieldCommand(ctx *commandContext) *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "field SPEC",
		Short: "Resolve one field with optional transforms, e.g. \"[title:upper]\"",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database(cmd)
			if err != nil {
				return err
			}
			e, err := singleEntry(db, key)
			if err != nil {
				return err
			}
			exp, err := ctx.expander()
			if err != nil {
				return err
			}
			value, ok := exp.ResolveFieldAndFormat(args[0], e, db)
			if !ok {
				return fmt.Errorf("%s does not resolve for %s", args[0], key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Citation key of the entry")
	return cmd
}
