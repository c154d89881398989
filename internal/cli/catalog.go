package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"computerx_chatbot/internal/nodes"
	"computerx_chatbot/internal/services"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	var categories bool

	cmd := &cobra.Command{
		Use:   "catalog [keyword]",
		Short: "List the catalog, or the products matching a keyword",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := opts.app(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			out := cmd.OutOrStdout()
			if categories {
				fmt.Fprintln(out, strings.Join(app.Catalog.UniqueCategories(), "\n"))
				return nil
			}

			keyword := "all"
			if len(args) == 1 {
				keyword = strings.TrimSpace(args[0])
			}
			fmt.Fprintln(out, nodes.ListingReply(app.Catalog, keyword))

			if len(args) == 1 && len(app.Catalog.FindByKeyword(keyword)) == 0 {
				if hints := app.Catalog.Suggest(keyword, services.MaxCandidates); len(hints) > 0 {
					fmt.Fprintf(out, "Did you mean: %s?\n", strings.Join(hints, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&categories, "categories", false, "list the categories only")
	return cmd
}
