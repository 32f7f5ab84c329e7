// Package spec embeds the OpenAPI description of the Priority-To-Do HTTP
// surface. It is imported by the HTTP server to serve the document at
// /openapi.yaml.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
// Serving it from the binary keeps the document and the running routes together.
//
//go:embed openapi.yaml
var OpenAPI []byte
