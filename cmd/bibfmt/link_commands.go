package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-bibfmt/pkg/editor"
	"github.com/goliatone/go-bibfmt/pkg/linkedfile"
	"github.com/goliatone/go-bibfmt/pkg/tui"
)

func newLinkCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Inspect and edit the files linked to an entry",
	}
	cmd.AddCommand(newLinkFindCommand(ctx))
	cmd.AddCommand(newLinkEditCommand(ctx))
	cmd.AddCommand(newLinkParseCommand())
	return cmd
}

func newLinkFindCommand(ctx *commandContext) *cobra.Command {
	var (
		key       string
		fieldOnly bool
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Search the configured directories for files belonging to an entry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database(cmd)
			if err != nil {
				return err
			}
			e, err := singleEntry(db, key)
			if err != nil {
				return err
			}
			registry, types, err := ctx.registries()
			if err != nil {
				return err
			}

			files, err := ctx.config.Finder(registry, types).Find(cmd.Context(), e, db)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if fieldOnly {
				fmt.Fprintln(out, linkedfile.FormatField(files))
				return nil
			}
			if len(files) == 0 {
				fmt.Fprintf(out, "No files found for %s\n", key)
				return nil
			}
			fmt.Fprintln(out, renderFiles(files))
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Citation key of the entry")
	cmd.Flags().BoolVar(&fieldOnly, "field", false, "Print the encoded file field instead of a table")
	return cmd
}

func newLinkEditCommand(ctx *commandContext) *cobra.Command {
	var (
		key    string
		index  int
		addNew bool
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit one linked file of an entry interactively and print the new file field",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := ctx.database(cmd)
			if err != nil {
				return err
			}
			e, err := singleEntry(db, key)
			if err != nil {
				return err
			}
			_, types, err := ctx.registries()
			if err != nil {
				return err
			}

			raw, _ := e.Field(linkedfile.FieldName)
			files := linkedfile.ParseField(raw)
			var current linkedfile.LinkedFile
			switch {
			case addNew || len(files) == 0:
				index = len(files)
			case index < 0 || index >= len(files):
				return fmt.Errorf("--index %d out of range; %s has %d linked files", index, key, len(files))
			default:
				current = files[index]
			}

			driver := newPromptDriver(cmd.OutOrStdout())
			vm := editor.NewViewModel(current, types, tui.NewFileDialog(tui.WithPromptDriver(driver)), preferences(ctx))
			edited, err := tui.NewEditDialog(tui.WithPromptDriver(driver)).Run(cmd.Context(), vm)
			if err != nil {
				return err
			}

			if index == len(files) {
				files = append(files, edited)
			} else {
				files[index] = edited
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = {%s}\n", linkedfile.FieldName, linkedfile.FormatField(files))
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Citation key of the entry")
	cmd.Flags().IntVar(&index, "index", 0, "Which linked file to edit")
	cmd.Flags().BoolVar(&addNew, "append", false, "Add a new linked file instead of editing one")
	return cmd
}

func newLinkParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "parse FIELD",
		Short:       "Decode a file field value",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), renderFiles(linkedfile.ParseField(args[0])))
			return nil
		},
	}
}

func renderFiles(files []linkedfile.LinkedFile) string {
	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Description, f.Link, f.FileType, f.SourceURL})
	}
	return renderTable([]string{"Description", "Link", "Type", "Source URL"}, rows, nil)
}

func preferences(ctx *commandContext) *editor.FilePreferences {
	wd := strings.TrimSpace(ctx.config.Files.WorkingDirectory)
	if wd == "" {
		wd, _ = os.Getwd()
	}
	return editor.NewFilePreferences(wd, ctx.config.Files.Directories...)
}
