package prompts

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
)

// InitAnswers holds the values asked by the init form. The fields carry the
// defaults shown to the user.
type InitAnswers struct {
	SchemaPath      string
	OutputDir       string
	PackageName     string
	ModelPackage    string
	ResolverPackage string
	GenerateAPIs    bool
}

// RunInitForm asks for the starter configuration and fills a.
func RunInitForm(ctx context.Context, a *InitAnswers) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Schema files").
				Description("A file, a directory or a glob pattern such as schema/**/*.graphqls").
				Placeholder("schema").
				Validate(required("schema path")).
				Value(&a.SchemaPath),
			huh.NewInput().
				Title("Output directory").
				Placeholder("graph").
				Validate(required("output directory")).
				Value(&a.OutputDir),
			huh.NewInput().
				Title("Go package").
				Description("Import path of the output directory; empty uses its base name").
				Placeholder("github.com/acme/app/graph").
				Value(&a.PackageName),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Model package").
				Description("Relative to the Go package; empty keeps models in the root package").
				Placeholder("model").
				Value(&a.ModelPackage),
			huh.NewConfirm().
				Title("Generate API interfaces?").
				Value(&a.GenerateAPIs),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Resolver package").
				Description("Empty disables resolver stubs").
				Placeholder("resolver").
				Value(&a.ResolverPackage),
		).WithHideFunc(func() bool { return !a.GenerateAPIs }),
	).WithTheme(Theme()).RunWithContext(ctx)
}

func required(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(what + " is required")
		}
		return nil
	}
}
