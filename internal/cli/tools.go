package cli

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/tool"
	"github.com/spf13/cobra"

	"computerx_chatbot/internal/nodes"
)

func newToolsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tools [name] [keyword]",
		Short: "List the catalog tools, or invoke one",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := opts.app(ctx)
			if err != nil {
				return err
			}
			defer app.Close()

			tools, err := nodes.CatalogTools(app.Catalog)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, t := range tools {
				info, err := t.Info(ctx)
				if err != nil {
					return err
				}

				if len(args) == 0 {
					fmt.Fprintf(out, "%-16s %s\n", info.Name, info.Desc)
					continue
				}
				if info.Name != args[0] {
					continue
				}

				invokable, ok := t.(tool.InvokableTool)
				if !ok {
					return fmt.Errorf("tool %s cannot be invoked", info.Name)
				}

				keyword := ""
				if len(args) == 2 {
					keyword = args[1]
				}
				arguments, err := sonic.MarshalString(nodes.CatalogQuery{Keyword: keyword})
				if err != nil {
					return err
				}

				result, err := invokable.InvokableRun(ctx, arguments)
				if err != nil {
					return fmt.Errorf("tool %s: %w", info.Name, err)
				}
				fmt.Fprintln(out, result)
				return nil
			}

			if len(args) > 0 {
				return fmt.Errorf("unknown tool: %s", args[0])
			}
			return nil
		},
	}
}
