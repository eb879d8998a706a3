package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leo-tosi/TDG/internal/config"
	"github.com/leo-tosi/TDG/internal/services"
	"github.com/leo-tosi/TDG/internal/sink"
	"github.com/leo-tosi/TDG/internal/templates"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	EnvFile      string
	TemplatesDir string
	PublicDir    string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "tdg",
		Short:         "TDG - template data generator",
		Long:          "Generates CSV files of mock data from column templates.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "path to a .env file (default .env)")
	cmd.PersistentFlags().StringVar(&opts.TemplatesDir, "templates", "", "templates directory (overrides TEMPLATES_DIR)")
	cmd.PersistentFlags().StringVar(&opts.PublicDir, "public", "", "output directory (overrides PUBLIC_DIR)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewTemplatesCommand(opts))

	return cmd
}

// loadConfig applies flag overrides on top of the environment.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var files []string
	if opts.EnvFile != "" {
		files = append(files, opts.EnvFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	if opts.TemplatesDir != "" {
		cfg.TemplatesDir = opts.TemplatesDir
	}
	if opts.PublicDir != "" {
		cfg.PublicDir = opts.PublicDir
	}
	return cfg, nil
}

func buildService(cfg *config.Config) (*services.DataGenerationService, *sink.FileSink, error) {
	out, err := sink.DSFileSink(cfg.PublicDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}
	svc := services.DSDataGenerationService(templates.DSStore(cfg.TemplatesDir), out, services.Options{
		DefaultRows:   cfg.DefaultRows,
		MaxRows:       cfg.MaxRows,
		MaxColumns:    cfg.MaxColumns,
		MaxTextLength: cfg.MaxTextLen,
		Strict:        cfg.Strict,
		Encoding:      cfg.Encoding,
	})
	return svc, out, nil
}
