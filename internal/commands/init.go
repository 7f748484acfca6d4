package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/syssam/gqlcodegen/config"
	"github.com/syssam/gqlcodegen/internal/prompts"
)

type initOptions struct {
	dir     string
	answers prompts.InitAnswers
	noInput bool
	force   bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter " + DefaultConfigFile,
		Long: `Write a starter ` + DefaultConfigFile + ` configuration file.
The values are asked interactively unless --no-input is given.`,
		Example: `  # Interactive mode
  gqlcodegen init

  # Non-interactive
  gqlcodegen init --no-input --schema 'schema/**/*.graphqls' --package github.com/acme/app/graph`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	a := &opts.answers
	cmd.Flags().StringVarP(&opts.dir, "dir", "d", ".", "Directory to write the configuration file to")
	cmd.Flags().StringVarP(&a.SchemaPath, "schema", "s", "schema", "Schema file, directory or glob pattern")
	cmd.Flags().StringVarP(&a.OutputDir, "output", "o", "graph", "Output directory")
	cmd.Flags().StringVarP(&a.PackageName, "package", "p", "", "Go import path of the output directory")
	cmd.Flags().StringVar(&a.ModelPackage, "model-package", "model", "Model package, relative to --package")
	cmd.Flags().StringVar(&a.ResolverPackage, "resolver-package", "", "Resolver stub package, relative to --package")
	cmd.Flags().BoolVar(&a.GenerateAPIs, "generate-apis", true, "Generate API interfaces")
	cmd.Flags().BoolVar(&opts.noInput, "no-input", false, "Run without prompts")
	cmd.Flags().BoolVarP(&opts.force, "force", "f", false, "Overwrite an existing configuration file")

	return cmd
}

func runInit(cmd *cobra.Command, opts *initOptions) error {
	path := filepath.Join(opts.dir, DefaultConfigFile)
	if _, err := os.Stat(path); err == nil && !opts.force {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	}

	if !opts.noInput {
		if err := prompts.RunInitForm(cmd.Context(), &opts.answers); err != nil {
			return err
		}
	}
	a := opts.answers
	if a.SchemaPath == "" || a.OutputDir == "" {
		return errors.New("schema path and output directory are required")
	}

	s, err := starterSettings(a)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode configuration: %w", err)
	}
	if err := os.MkdirAll(opts.dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // configuration file is not secret
		return fmt.Errorf("write %s: %w", path, err)
	}

	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Config", Value: path},
		{Label: "Schema", Value: a.SchemaPath},
		{Label: "Output", Value: a.OutputDir},
		{Label: "APIs", Value: strconv.FormatBool(a.GenerateAPIs)},
	}, "Initialization completed; run gqlcodegen generate")
	return nil
}

// starterSettings builds the settings written by init and validates them the
// way generate will.
func starterSettings(a prompts.InitAnswers) (*config.Settings, error) {
	opts := []config.Option{
		config.WithSchemaPaths(a.SchemaPath),
		config.WithOutputDir(a.OutputDir),
		config.WithGenerateAPIs(a.GenerateAPIs),
	}
	if a.PackageName != "" {
		opts = append(opts, config.WithPackageName(a.PackageName))
	}
	if a.ModelPackage != "" {
		opts = append(opts, config.WithModelPackage(a.ModelPackage))
	}
	if a.GenerateAPIs && a.ResolverPackage != "" {
		opts = append(opts, config.WithResolverPackage(a.ResolverPackage))
	}
	s, err := config.NewSettings(opts...)
	if err != nil {
		return nil, err
	}
	if _, err := s.Build(); err != nil {
		return nil, err
	}
	return s, nil
}
