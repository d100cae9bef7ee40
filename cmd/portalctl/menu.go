package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdpi/member-portal/internal/core/domain"
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "menu [header|sidebar|footer]",
		Short:     "Print the navigation visible to the current session",
		Long:      `Print a menu tree as the API filters it for the signed-in role, or for the public when signed out.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"header", "sidebar", "footer"},
		RunE: func(cmd *cobra.Command, args []string) error {
			position := "header"
			if len(args) == 1 {
				position = args[0]
			}
			// Signed out is fine: the API answers with the public menu.
			_, _ = a.client.Restore(cmd.Context())

			items, err := a.client.Navigation(cmd.Context(), position)
			if err != nil {
				return err
			}
			printMenu(cmd.OutOrStdout(), items, 0)
			return nil
		},
	}
}

func printMenu(w io.Writer, items []domain.MenuItem, depth int) {
	for _, it := range items {
		dest := it.To
		if dest == "" {
			dest = it.Href
		}
		line := strings.Repeat("  ", depth) + "- " + it.Label
		if dest != "" {
			line += "  " + dest
		}
		fmt.Fprintln(w, line)
		printMenu(w, it.Children, depth+1)
	}
}
