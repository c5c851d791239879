// Package templates embeds the default report templates. Any of them can
// be overridden by a file with the same relative path in the configured
// templates directory.
package templates

import "embed"

//go:embed report
var FS embed.FS
