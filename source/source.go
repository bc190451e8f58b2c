// Package source installs the go-json driver as the default JSON driver when
// blank-imported.
package source

import (
	"github.com/reoring/jsonvet"
	drvgojson "github.com/reoring/jsonvet/source/gojson"
)

// init in a separate package to avoid import cycle in root.
func init() { jsonvet.SetJSONDriver(drvgojson.Driver()) }
