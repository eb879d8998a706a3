package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leo-tosi/TDG/internal/templates"
)

func NewTemplatesCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			list, err := templates.DSStore(cfg.TemplatesDir).List()
			if err != nil {
				return err
			}
			for _, tmpl := range list {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", tmpl.Name, tmpl.File)
			}
			return nil
		},
	}
}
