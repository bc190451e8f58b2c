package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/jsonvet/i18n"
	"github.com/reoring/jsonvet/infer"
	"github.com/reoring/jsonvet/model/decl"
	"github.com/reoring/jsonvet/spec"
)

// errInvalid signals that at least one document failed validation. It maps
// to exit status 1 without an extra message.
var errInvalid = errors.New("invalid documents")

type globalFlags struct {
	verbose bool
	lang    string
}

type schemaFlags struct {
	types   string
	root    string
	options string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "jsonvet",
		Short: "Validate JSON and YAML documents against declared types",
		Long: `jsonvet infers a validation schema from types declared in YAML and checks
documents against it, reporting every violation with its path.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch g.lang {
			case "en", "ja":
				i18n.SetLanguage(g.lang)
				return nil
			default:
				return fmt.Errorf("unsupported --lang %q (want en or ja)", g.lang)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "verbose output")
	root.PersistentFlags().StringVar(&g.lang, "lang", "en", "message language: en, ja")

	root.AddCommand(newCheckCmd(g), newSchemaCmd(g))
	return root
}

func (f *schemaFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.types, "types", "t", "", "YAML file declaring the types")
	cmd.Flags().StringVarP(&f.root, "root", "r", "", "name of the root type")
	cmd.Flags().StringVarP(&f.options, "options", "o", "", "YAML file with inference options")
	_ = cmd.MarkFlagRequired("types")
	_ = cmd.MarkFlagRequired("root")
}

// load declares the types, applies the options file and infers the schema
// rooted at f.root.
func (f *schemaFlags) load(logger *slog.Logger) (spec.Schema, error) {
	reg, err := decl.ParseFile(f.types)
	if err != nil {
		return spec.Schema{}, err
	}
	t, ok := reg.Lookup(f.root)
	if !ok {
		return spec.Schema{}, fmt.Errorf("type %q is not declared in %s (have %v)", f.root, f.types, reg.Names())
	}
	opts := infer.DefaultOptions()
	if f.options != "" {
		data, err := os.ReadFile(f.options)
		if err != nil {
			return spec.Schema{}, fmt.Errorf("failed to read options: %w", err)
		}
		if opts, err = infer.LoadOptionsYAML(data); err != nil {
			return spec.Schema{}, err
		}
	}
	return infer.BuildSchema(t, opts.WithLogger(logger))
}

func newLogger(cmd *cobra.Command, g *globalFlags) *slog.Logger {
	level := slog.LevelWarn
	if g.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}
