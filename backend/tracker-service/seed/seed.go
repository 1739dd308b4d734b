// Package seed carries the demo data applied to an empty tracker.
package seed

import _ "embed"

//go:embed demo.yaml
var Demo []byte
