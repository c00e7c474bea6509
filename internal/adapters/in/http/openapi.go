package http

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"

	_ "embed"
)

//go:embed openapi.yml
var openAPISpec []byte

var loadOpenAPIDocument = sync.OnceValues(func() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
})

// ValidateOpenAPIDocument parses and validates the embedded API document.
// Called at startup so a malformed document fails the boot, not the first
// request for it.
func ValidateOpenAPIDocument(_ context.Context) error {
	_, err := loadOpenAPIDocument()
	return err
}

// OpenAPIDocument handles GET /openapi.json.
func (s *Server) OpenAPIDocument(ctx echo.Context) error {
	doc, err := loadOpenAPIDocument()
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: "API document unavailable",
		})
	}
	return ctx.JSON(http.StatusOK, doc)
}
