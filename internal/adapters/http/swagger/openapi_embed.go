package swagger

import _ "embed"

// OpenAPI contains the embedded OpenAPI YAML description of the backend
// API as the console sees it.
//
//go:embed openapi.yaml
var OpenAPI []byte
