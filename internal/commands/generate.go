package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/syssam/gqlcodegen"
	"github.com/syssam/gqlcodegen/compiler"
	"github.com/syssam/gqlcodegen/config"
	"github.com/syssam/gqlcodegen/internal/logging"
	"github.com/syssam/gqlcodegen/internal/prompts"
	"github.com/syssam/gqlcodegen/internal/watch"
)

type generateOptions struct {
	schemaPaths          []string
	outputDir            string
	packageName          string
	apiPackage           string
	apiImports           []string
	modelPackage         string
	modelImports         []string
	resolverPackage      string
	modelPrefix          string
	modelSuffix          string
	subscriptionType     string
	generateAPIs         bool
	validationAnnotation string
	equalsAndHashCode    bool
	toString             bool
	customTypes          []string
	customAnnotations    []string
	configFile           string
	header               string
	workers              int
	watch                bool
	logLevel             string
	logFormat            string
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate Go sources from GraphQL schema files",
		Long: `Generate Go sources from GraphQL schema files.

Flags override the values of the configuration file. Without --config,
` + DefaultConfigFile + ` is read from the working directory when present.`,
		Example: `  # Use gqlcodegen.yaml in the working directory
  gqlcodegen generate

  # Everything on the command line
  gqlcodegen generate --schema 'schema/**/*.graphqls' --output graph \
    --package github.com/acme/app/graph --model-package model \
    --custom-type DateTime=time.Time

  # Regenerate on every schema change
  gqlcodegen generate --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.schemaPaths, "schema", "s", nil, "Schema file, directory or glob pattern (repeatable)")
	f.StringVarP(&opts.outputDir, "output", "o", "", "Output directory")
	f.StringVarP(&opts.packageName, "package", "p", "", "Go import path of the output directory")
	f.StringVar(&opts.apiPackage, "api-package", "", "API package, relative to --package")
	f.StringArrayVar(&opts.apiImports, "api-import", nil, "Import path available to API type mappings (repeatable)")
	f.StringVar(&opts.modelPackage, "model-package", "", "Model package, relative to --package")
	f.StringArrayVar(&opts.modelImports, "model-import", nil, "Import path available to model type mappings (repeatable)")
	f.StringVar(&opts.resolverPackage, "resolver-package", "", "Resolver stub package, relative to --package")
	f.StringVar(&opts.modelPrefix, "model-prefix", "", "Prefix of generated type names")
	f.StringVar(&opts.modelSuffix, "model-suffix", "", "Suffix of generated type names")
	f.StringVar(&opts.subscriptionType, "subscription-type", "", `Subscription result wrapper: "chan" or a generic type such as pubsub.Stream`)
	f.BoolVar(&opts.generateAPIs, "generate-apis", true, "Generate API interfaces for the root operation types")
	f.StringVar(&opts.validationAnnotation, "validation-annotation", "", `Struct tag added to non-null fields, e.g. validate:"required"`)
	f.BoolVar(&opts.equalsAndHashCode, "equals-hashcode", false, "Generate Equal and HashCode methods")
	f.BoolVar(&opts.toString, "to-string", false, "Generate String methods")
	f.StringArrayVar(&opts.customTypes, "custom-type", nil, "Type mapping KEY=GOTYPE, KEY is a type or Type.field (repeatable)")
	f.StringArrayVar(&opts.customAnnotations, "custom-annotation", nil, "Struct tag mapping KEY=TAG, KEY is a type or Type.field (repeatable)")
	f.StringVarP(&opts.configFile, "config", "c", "", "JSON or YAML configuration file")
	f.StringVar(&opts.header, "header", "", "Header comment of generated files")
	f.IntVar(&opts.workers, "workers", 0, "Files written in parallel (default GOMAXPROCS)")
	f.BoolVarP(&opts.watch, "watch", "w", false, "Regenerate whenever a schema file changes")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")
	f.StringVar(&opts.logFormat, "log-format", "text", "Log format: text or json")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	log, err := opts.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	settings, err := opts.settings(cmd)
	if err != nil {
		return gqlcodegen.NewStageError(gqlcodegen.StageConfig, err)
	}
	run := func(ctx context.Context) error {
		report, err := compiler.Run(ctx, settings, compiler.WithLogger(log), compiler.WithWorkers(opts.workers))
		if err != nil {
			return err
		}
		printReport(cmd.OutOrStdout(), report)
		return nil
	}

	if !opts.watch {
		return run(cmd.Context())
	}
	return watchGenerate(cmd, settings, log, run)
}

// watchGenerate generates once, then on every change until the command's
// context is cancelled. Failed runs are reported and the watch goes on.
func watchGenerate(cmd *cobra.Command, settings *config.Settings, log *slog.Logger, run func(context.Context) error) error {
	cfg, err := config.Resolve(settings)
	if err != nil {
		return gqlcodegen.NewStageError(gqlcodegen.StageConfig, err)
	}
	paths := cfg.SchemaPaths
	if settings.JSONConfigurationFile != "" {
		paths = append(paths, settings.JSONConfigurationFile)
	}
	w, err := watch.New(paths, watch.WithLogger(log), watch.WithIgnore(cfg.OutputDir))
	if err != nil {
		return fmt.Errorf("watch schema: %w", err)
	}
	defer w.Close()

	ctx := cmd.Context()
	report := func(ctx context.Context) error {
		if err := run(ctx); err != nil {
			prompts.PrintError(cmd.ErrOrStderr(), err)
		}
		return nil
	}
	_ = report(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching %s for changes\n", strings.Join(w.Watched(), ", "))
	return w.Run(ctx, report)
}

func (o *generateOptions) logger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(o.logFormat)
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Config{Level: level, Format: format, Output: w}), nil
}

// settings turns the flags into direct settings. Only flags given on the
// command line are applied, so the configuration file fills the rest.
func (o *generateOptions) settings(cmd *cobra.Command) (*config.Settings, error) {
	changed := cmd.Flags().Changed
	var opts []config.Option
	str := func(name, v string, opt func(string) config.Option) {
		if changed(name) {
			opts = append(opts, opt(v))
		}
	}
	list := func(name string, v []string, opt func(...string) config.Option) {
		if changed(name) {
			opts = append(opts, opt(v...))
		}
	}
	flag := func(name string, v bool, opt func(bool) config.Option) {
		if changed(name) {
			opts = append(opts, opt(v))
		}
	}

	list("schema", o.schemaPaths, config.WithSchemaPaths)
	str("output", o.outputDir, config.WithOutputDir)
	str("package", o.packageName, config.WithPackageName)
	str("api-package", o.apiPackage, config.WithAPIPackage)
	list("api-import", o.apiImports, config.WithAPIImports)
	str("model-package", o.modelPackage, config.WithModelPackage)
	list("model-import", o.modelImports, config.WithModelImports)
	str("resolver-package", o.resolverPackage, config.WithResolverPackage)
	str("model-prefix", o.modelPrefix, config.WithModelNamePrefix)
	str("model-suffix", o.modelSuffix, config.WithModelNameSuffix)
	str("subscription-type", o.subscriptionType, config.WithSubscriptionReturnType)
	flag("generate-apis", o.generateAPIs, config.WithGenerateAPIs)
	str("validation-annotation", o.validationAnnotation, config.WithModelValidationAnnotation)
	flag("equals-hashcode", o.equalsAndHashCode, config.WithEqualsAndHashCode)
	flag("to-string", o.toString, config.WithToString)
	str("header", o.header, config.WithHeader)

	var errs []error
	types, err := keyValues("custom-type", o.customTypes)
	if err != nil {
		errs = append(errs, err)
	} else if len(types) > 0 {
		opts = append(opts, config.WithCustomTypes(types))
	}
	tags, err := keyValues("custom-annotation", o.customAnnotations)
	if err != nil {
		errs = append(errs, err)
	} else if len(tags) > 0 {
		opts = append(opts, config.WithCustomAnnotations(tags))
	}

	file := o.configFile
	if file == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			file = DefaultConfigFile
		}
	}
	if file != "" {
		opts = append(opts, config.WithJSONConfigurationFile(file))
	}

	s := &config.Settings{}
	if err := s.ApplyAll(opts...); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

// keyValues parses repeated KEY=VALUE flags. Later keys win.
func keyValues(name string, values []string) (map[string]string, error) {
	if len(values) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(values))
	for _, kv := range values {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, gqlcodegen.NewConfigError(name, kv, "want KEY=VALUE")
		}
		m[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return m, nil
}

func printReport(w io.Writer, r *compiler.Report) {
	prompts.PrintResult(w, []prompts.ResultField{
		{Label: "Files", Value: strconv.Itoa(len(r.Files))},
		{Label: "Types", Value: strconv.Itoa(r.Types)},
		{Label: "APIs", Value: strconv.Itoa(r.APIs)},
		{Label: "Resolvers", Value: strconv.Itoa(r.Resolvers)},
		{Label: "Duration", Value: r.Duration.Round(time.Millisecond).String()},
	}, "Generation completed")
}
