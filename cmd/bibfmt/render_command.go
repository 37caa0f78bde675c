package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-bibfmt"
	"github.com/goliatone/go-bibfmt/pkg/render/template/gotemplate"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var (
		key          string
		templatesDir string
		outputPath   string
	)

	cmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Render the database through a template (plain, markdown, bibtex, a file name or inline text)",
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

			var opts []gotemplate.Option
			if templatesDir != "" {
				opts = append(opts, gotemplate.WithBaseDir(templatesDir))
			}
			exporter, err := bibfmt.NewExporter(exp, opts...)
			if err != nil {
				return err
			}

			var out io.Writer = cmd.OutOrStdout()
			if outputPath != "" {
				file, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer file.Close()
				out = file
			}

			if key != "" {
				e, err := singleEntry(db, key)
				if err != nil {
					return err
				}
				_, err = exporter.RenderEntry(cmd.Context(), args[0], e, db, out)
				return err
			}
			if _, err := exporter.Render(cmd.Context(), args[0], db, out); err != nil {
				return err
			}
			if outputPath != "" {
				ctx.logger.Info("rendered", slog.String("template", args[0]), slog.String("output", outputPath), slog.Int("entries", db.Len()))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&key, "key", "k", "", "Render one entry, exposed to the template as \"entry\"")
	cmd.Flags().StringVar(&templatesDir, "templates", "", "Directory searched for templates before the built-ins")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (stdout if empty)")
	return cmd
}
