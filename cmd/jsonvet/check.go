package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/jsonvet"
	"github.com/reoring/jsonvet/spec"
)

type checkFlags struct {
	schemaFlags
	caseSensitive bool
	format        string
	watch         bool
	debounce      time.Duration
}

func newCheckCmd(g *globalFlags) *cobra.Command {
	f := &checkFlags{}
	cmd := &cobra.Command{
		Use:   "check [flags] FILE...",
		Short: "Validate JSON or YAML documents",
		Long: `Validate documents against the root type. Files ending in .yaml or .yml are
read as YAML, everything else as JSON. The command exits with status 1 when
any document is invalid.`,
		Example: `  # Validate two documents
  jsonvet check --types types.yaml --root Person a.json b.yaml

  # JSON output for CI/CD
  jsonvet check -t types.yaml -r Person --format json a.json

  # Re-run whenever a document or the declarations change
  jsonvet check -t types.yaml -r Person --watch a.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.format != "text" && f.format != "json" {
				return fmt.Errorf("unsupported --format %q (want text or json)", f.format)
			}
			logger := newLogger(cmd, g)
			if !f.watch {
				return f.run(cmd.OutOrStdout(), args, logger)
			}
			paths := append([]string{f.types}, args...)
			if f.options != "" {
				paths = append(paths, f.options)
			}
			return watchFiles(cmd.Context(), paths, f.debounce, logger, func() {
				if err := f.run(cmd.OutOrStdout(), args, logger); err != nil && !errors.Is(err, errInvalid) {
					logger.Error("check failed", slog.Any("error", err))
				}
			})
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.caseSensitive, "case-sensitive", false, "match object keys exactly")
	cmd.Flags().StringVar(&f.format, "format", "text", "output format: text, json")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "re-run when an input file changes")
	cmd.Flags().DurationVar(&f.debounce, "debounce", 100*time.Millisecond, "wait after a change before re-running")
	return cmd
}

type errorEntry struct {
	Path    string `json:"path"`
	Pointer string `json:"pointer"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
}

type fileResult struct {
	File   string       `json:"file"`
	Valid  bool         `json:"valid"`
	Errors []errorEntry `json:"errors,omitempty"`
}

// run loads the schema afresh, so a watch loop picks up edited declarations.
func (f *checkFlags) run(w io.Writer, files []string, logger *slog.Logger) error {
	s, err := f.load(logger)
	if err != nil {
		return err
	}
	v, err := spec.Compile(s, f.caseSensitive)
	if err != nil {
		return err
	}

	results := make([]fileResult, 0, len(files))
	for _, file := range files {
		r, err := checkFile(v, file, logger)
		if err != nil {
			return err
		}
		results = append(results, r)
	}
	if err := f.print(w, results); err != nil {
		return err
	}
	for _, r := range results {
		if !r.Valid {
			return errInvalid
		}
	}
	return nil
}

func checkFile(v jsonvet.Validator, file string, logger *slog.Logger) (fileResult, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return fileResult{}, fmt.Errorf("failed to read document: %w", err)
	}
	opt := jsonvet.ParseOpt{
		OnDuplicateKey: jsonvet.Warn,
		Warnings: func(e jsonvet.ValidationError) {
			logger.Warn("duplicate key", slog.String("file", file), slog.String("path", e.Path.Pointer()))
		},
	}
	var doc jsonvet.Node
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		doc, err = jsonvet.ParseYAML(data, opt)
	default:
		doc, err = jsonvet.ParseJSON(data, opt)
	}
	var es jsonvet.Errors
	if err != nil {
		var ok bool
		if es, ok = jsonvet.AsErrors(err); !ok {
			return fileResult{}, err
		}
	} else {
		es = jsonvet.Collect(v, doc)
	}
	logger.Debug("document checked", slog.String("file", file), slog.Int("errors", len(es)))

	r := fileResult{File: file, Valid: len(es) == 0}
	for _, e := range es {
		entry := errorEntry{Path: e.Path.String(), Pointer: e.Path.Pointer(), Code: e.Code, Message: e.Message}
		if doc != nil {
			entry.Value = jsonvet.ExtractInvalidNode(e, doc)
		}
		r.Errors = append(r.Errors, entry)
	}
	return r, nil
}

func (f *checkFlags) print(w io.Writer, results []fileResult) error {
	if f.format == "json" {
		b, err := gojson.MarshalIndent(results, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	}
	for _, r := range results {
		if r.Valid {
			fmt.Fprintf(w, "%s: ok\n", r.File)
			continue
		}
		fmt.Fprintf(w, "%s: %d error(s)\n", r.File, len(r.Errors))
		for _, e := range r.Errors {
			if e.Path == "" {
				fmt.Fprintf(w, "  %s\n", e.Message)
			} else {
				fmt.Fprintf(w, "  %s: %s\n", e.Path, e.Message)
			}
		}
	}
	return nil
}
