// Package api embeds the OpenAPI contract so the HTTP adapter can serve
// and validate it without reading from disk at runtime.
package api

import _ "embed"

//go:embed openapi.yaml
var Spec []byte
