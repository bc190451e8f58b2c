package main

import (
	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/reoring/jsonvet/spec"
)

func newSchemaCmd(g *globalFlags) *cobra.Command {
	f := &schemaFlags{}
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of a declared type",
		Example: `  jsonvet schema --types types.yaml --root Person
  jsonvet schema -t types.yaml -r Person -o options.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := f.load(newLogger(cmd, g))
			if err != nil {
				return err
			}
			if err := spec.Check(s); err != nil {
				return err
			}
			b, err := gojson.MarshalIndent(spec.JSONSchema(s), "", "  ")
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(b, '\n'))
			return err
		},
	}
	f.register(cmd)
	return cmd
}
