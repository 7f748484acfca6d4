// Package compiler runs the gqlcodegen pipeline: it loads the schema files,
// parses, resolves and maps them, then emits the Go sources.
//
//	cfg, err := config.Resolve(settings)
//	...
//	report, err := compiler.Generate(ctx, cfg, compiler.WithLogger(logger))
//
// Every failure is a *gqlcodegen.StageError naming the stage that failed.
// Stages run strictly in order and nothing is retried or rolled back: files
// written before an emit failure stay on disk.
package compiler

import (
	"context"
	"log/slog"
	"time"

	"github.com/syssam/gqlcodegen"
	"github.com/syssam/gqlcodegen/compiler/gen"
	"github.com/syssam/gqlcodegen/compiler/load"
	"github.com/syssam/gqlcodegen/compiler/mapping"
	"github.com/syssam/gqlcodegen/compiler/parse"
	"github.com/syssam/gqlcodegen/compiler/resolve"
	"github.com/syssam/gqlcodegen/config"
)

// Report summarizes a successful run.
type Report struct {
	// Files are the written files relative to the output directory, sorted.
	Files []string
	// Types is the number of model types emitted.
	Types int
	// APIs is the number of API interfaces emitted.
	APIs int
	// Resolvers is the number of resolver stubs emitted.
	Resolvers int
	Duration  time.Duration
}

// Run resolves the direct settings, merged with the configuration file they
// name, and generates.
func Run(ctx context.Context, direct *config.Settings, opts ...Option) (*Report, error) {
	cfg, err := config.Resolve(direct)
	if err != nil {
		return nil, gqlcodegen.NewStageError(gqlcodegen.StageConfig, err)
	}
	return Generate(ctx, cfg, opts...)
}

// Generate runs the pipeline for a built configuration.
func Generate(ctx context.Context, cfg *config.Config, opts ...Option) (*Report, error) {
	o := newOptions(opts)
	start := time.Now()
	log := o.log.With(slog.String("output", cfg.OutputDir))

	bundle, err := load.New(load.Exclude(cfg.OutputDir)).Load(cfg.SchemaPaths...)
	if err != nil {
		return nil, gqlcodegen.NewStageError(gqlcodegen.StageLoad, err)
	}
	log.Debug("loaded schema", slog.Any("files", bundle.Names()))

	doc, err := parse.Parse(bundle)
	if err != nil {
		return nil, gqlcodegen.NewStageError(gqlcodegen.StageParse, err)
	}
	log.Debug("parsed schema", slog.Int("definitions", len(doc.Definitions)))

	res, err := resolve.Resolve(doc)
	if err != nil {
		return nil, gqlcodegen.NewStageError(gqlcodegen.StageResolve, err)
	}
	log.Debug("resolved types", slog.Int("symbols", len(res.Symbols)))

	s, err := mapping.Map(res, cfg)
	if err != nil {
		return nil, gqlcodegen.NewStageError(gqlcodegen.StageMap, err)
	}
	log.Debug("mapped schema", slog.Int("models", len(s.Models)), slog.Int("apis", len(s.APIs)))

	if err := ctx.Err(); err != nil {
		return nil, gqlcodegen.NewStageError(gqlcodegen.StageEmit, err)
	}
	files, err := o.generator(log, cfg.OutputDir).Generate(ctx, s)
	if err != nil {
		return nil, gqlcodegen.NewStageError(gqlcodegen.StageEmit, err)
	}

	report := &Report{
		Files:    files,
		Types:    len(s.Models),
		APIs:     len(s.APIs),
		Duration: time.Since(start),
	}
	if s.Resolver != nil {
		report.Resolvers = len(s.APIs)
	}
	log.Info("generated",
		slog.Int("files", len(report.Files)),
		slog.Int("types", report.Types),
		slog.Int("apis", report.APIs),
		slog.Int("resolvers", report.Resolvers),
		slog.Duration("duration", report.Duration),
	)
	return report, nil
}

// Generator emits a mapped schema and returns the written files.
type Generator interface {
	Generate(context.Context, *mapping.Schema) ([]string, error)
}

// GenerateFunc adapts a function to a Generator.
type GenerateFunc func(context.Context, *mapping.Schema) ([]string, error)

// Generate calls f(ctx, s).
func (f GenerateFunc) Generate(ctx context.Context, s *mapping.Schema) ([]string, error) {
	return f(ctx, s)
}

// Hook wraps the emit stage, e.g. to write extra files or post-process the
// written ones.
type Hook func(Generator) Generator

// generator returns the emitter wrapped by the hooks. The first hook is the
// outermost.
func (o *options) generator(log *slog.Logger, dir string) Generator {
	var g Generator = GenerateFunc(func(ctx context.Context, s *mapping.Schema) ([]string, error) {
		units, err := gen.Units(s)
		if err != nil {
			return nil, err
		}
		log.Debug("built units", slog.Int("units", len(units)))
		return gen.NewWriter(dir, gen.WithWorkers(o.workers), gen.WithLogger(log)).Write(ctx, units)
	})
	for i := len(o.hooks) - 1; i >= 0; i-- {
		g = o.hooks[i](g)
	}
	return g
}
