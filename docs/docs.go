// Package docs carries the embedded OpenAPI document served at /docs.
package docs

import _ "embed"

//go:embed openapi.yaml
var OpenAPIYAML []byte
