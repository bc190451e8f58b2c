// Command jsonvet validates JSON and YAML documents against types declared in
// a YAML file, and exports those types as JSON Schema.
//
// Usage:
//
//	# Validate documents
//	jsonvet check --types types.yaml --root Person people/*.json
//
//	# Machine-readable output, re-run on change
//	jsonvet check --types types.yaml --root Person --format json --watch person.yaml
//
//	# Print the JSON Schema of a type
//	jsonvet schema --types types.yaml --root Person
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/reoring/jsonvet/source"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		if !errors.Is(err, errInvalid) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
