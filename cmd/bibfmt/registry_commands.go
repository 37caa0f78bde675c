package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTransformsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "transforms",
		Short: "List the transforms usable in field templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, _, err := ctx.registries()
			if err != nil {
				return err
			}
			names := registry.List()
			rows := make([][]string, 0, len(names))
			for _, name := range names {
				usage := "[field:" + name + "]"
				if registry.Parameterised(name) {
					usage = "[field:" + name + "(arg)]"
				}
				rows = append(rows, []string{name, usage})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Transform", "Usage"}, rows, nil))
			return nil
		},
	}
}

func newFileTypesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "filetypes",
		Short: "List the known external file types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, types, err := ctx.registries()
			if err != nil {
				return err
			}
			list := types.List()
			rows := make([][]string, 0, len(list))
			for _, t := range list {
				rows = append(rows, []string{t.Name, t.Extension, t.MimeType, t.Application})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Extension", "MIME type", "Application"}, rows, nil))
			return nil
		},
	}
}
