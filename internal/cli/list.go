package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mverhagen/bpdoc/pkg/registry"
)

// listCommand creates the list command for showing the repository
// contents without exporting anything.
func (c *CLI) listCommand() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List blueprint assets in the source directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			repo := registry.NewDir(sourceRoot(cfg, source))
			handles, err := repo.QueryByKind(cmd.Context(), registry.KindBlueprint)
			if err != nil {
				return err
			}

			if len(handles) == 0 {
				printInfo("No blueprint definitions found")
				return nil
			}

			for _, h := range handles {
				fmt.Println(StyleValue.Render(h.Name) + "  " + StyleDim.Render(h.Path))
			}
			printDetail("%d blueprints", len(handles))
			return nil
		},
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "asset definition directory")

	return cmd
}
