// Package docs embeds the OpenAPI description of the HTTP API.
package docs

import _ "embed"

// OpenAPI contains the embedded OpenAPI 3 specification.
//
//go:embed openapi.json
var OpenAPI []byte
