package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-bibfmt/pkg/bibutil"
	"github.com/goliatone/go-bibfmt/pkg/doi"
	"github.com/goliatone/go-bibfmt/pkg/entry"
)

func newUtilCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "util",
		Short:       "String helpers used when cleaning entries",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	cmd.AddCommand(
		simpleCommand("url VALUE", "Normalise a URL or DOI into a link", bibutil.SanitizeURL),
		simpleCommand("key VALUE", "Strip characters that are illegal in citation keys", bibutil.CheckLegalKey),
		simpleCommand("ascii VALUE", "Transliterate accented characters", bibutil.ReplaceSpecialCharacters),
		newKeywordsCommand(),
		newDateCommand(),
		newDOICommand(),
	)
	return cmd
}

func simpleCommand(use, short string, fn func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), fn(args[0]))
			return nil
		},
	}
}

func newKeywordsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keywords VALUE",
		Short: "Split a keyword list on commas and semicolons, one per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, keyword := range bibutil.SeparatedKeywords(args[0]) {
				fmt.Fprintln(cmd.OutOrStdout(), keyword)
			}
			return nil
		},
	}
}

func newDateCommand() *cobra.Command {
	var year, month string

	cmd := &cobra.Command{
		Use:   "date",
		Short: "Build the publication date (yyyy or yyyy-mm) from year and month values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec := entry.New("misc", "date").Set("year", year).Set("month", month)
			date, ok := bibutil.PublicationDate(rec, nil)
			if !ok {
				return fmt.Errorf("no date in year %q", year)
			}
			fmt.Fprintln(cmd.OutOrStdout(), date)
			return nil
		},
	}
	cmd.Flags().StringVar(&year, "year", "", "Year value, two or four digits")
	cmd.Flags().StringVar(&month, "month", "", "Month value (number, name or #mon# constant)")
	return cmd
}

func newDOICommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doi VALUE",
		Short: "Extract a DOI and print its resolver URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, ok := doi.Parse(strings.TrimSpace(args[0]))
			if !ok {
				return fmt.Errorf("%q contains no DOI", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), d.URL())
			return nil
		},
	}
}
