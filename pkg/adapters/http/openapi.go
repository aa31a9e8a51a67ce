package http

import (
	"context"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/solacelabs/arbor/api"
)

var (
	specOnce sync.Once
	specDoc  *openapi3.T
	specErr  error
)

// GetSwagger loads and validates the embedded OpenAPI document. The
// parsed document is cached after the first call.
func GetSwagger() (*openapi3.T, error) {
	specOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(api.Spec)
		if err != nil {
			specErr = fmt.Errorf("failed to parse OpenAPI spec: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			specErr = fmt.Errorf("embedded OpenAPI spec is invalid: %w", err)
			return
		}
		specDoc = doc
	})
	return specDoc, specErr
}

func rawSpec() []byte {
	return api.Spec
}
