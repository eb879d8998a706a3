package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leo-tosi/TDG/internal/encoder"
	"github.com/leo-tosi/TDG/internal/models"
)

type GenerateOptions struct {
	Template string
	Out      string
	Rows     int
	Strict   bool
	Encoding string
}

func NewGenerateCommand(root *RootOptions) *cobra.Command {
	opts := &GenerateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one CSV file from a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("strict") {
				cfg.Strict = opts.Strict
			}
			if opts.Encoding != "" {
				if cfg.Encoding, err = encoder.ParseEncoding(opts.Encoding); err != nil {
					return err
				}
			}

			svc, _, err := buildService(cfg)
			if err != nil {
				return err
			}

			fileName := opts.Out
			if fileName == "" {
				fileName = strings.TrimSuffix(opts.Template, filepath.Ext(opts.Template))
			}
			fileName = strings.TrimSuffix(fileName, ".csv")

			req := &models.GenerateRequest{FileName: fileName, Template: opts.Template}
			if cmd.Flags().Changed("rows") {
				req.RowsCount = &opts.Rows
			}

			job, err := svc.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "generated %d rows: %s\n", job.Rows, job.FilePath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Template, "template", "t", "", "template name or file")
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file name, .csv is appended (default template name)")
	cmd.Flags().IntVarP(&opts.Rows, "rows", "n", 10, "number of rows")
	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "reject unknown column types and inverted ranges")
	cmd.Flags().StringVar(&opts.Encoding, "encoding", "", "csv encoding (verbatim|rfc4180)")
	_ = cmd.MarkFlagRequired("template")

	return cmd
}
