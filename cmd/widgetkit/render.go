package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/widgetkit/pkg/render"
)

func renderCmd() *cobra.Command {
	var (
		pretty bool
		indent string
	)

	cmd := &cobra.Command{
		Use:   "render [tree.json]",
		Short: "Render a tree to HTML",
		Long: `Render a tree description to HTML on stdout without a DOM.

Widget nodes are rendered with their static markers (data-bs-* for
Bootstrap widgets). Reads stdin when no file or "-" is given.

Examples:
  widgetkit render page.json
  cat page.json | widgetkit render --pretty`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			data, err := readTree(cmd, path)
			if err != nil {
				return err
			}
			root, err := decodeTree(data)
			if err != nil {
				return err
			}

			r := render.NewRenderer(render.RendererConfig{Pretty: pretty, Indent: indent})
			if err := r.RenderToWriter(cmd.OutOrStdout(), root); err != nil {
				return err
			}
			if !pretty {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&pretty, "pretty", "p", false, "Indent the output")
	cmd.Flags().StringVar(&indent, "indent", "  ", "Indent string used with --pretty")

	return cmd
}
