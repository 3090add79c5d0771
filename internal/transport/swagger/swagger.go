package swagger

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/oasdiff/yaml"
	httpSwagger "github.com/swaggo/http-swagger"
)

const SpecURL = "/openapi.yml"

// Spec is an OpenAPI document that has been parsed and validated.
type Spec struct {
	Doc *openapi3.T
	raw []byte
}

func Load(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read openapi spec: %w", err)
	}
	return LoadFromData(raw)
}

func LoadFromData(raw []byte) (*Spec, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("parse openapi spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}
	return &Spec{Doc: doc, raw: raw}, nil
}

// UseServerURL replaces the document's servers with url so the Swagger UI
// targets the deployed base URL. An empty url keeps the document as is.
func (s *Spec) UseServerURL(url string) error {
	if url == "" {
		return nil
	}
	s.Doc.Servers = openapi3.Servers{{URL: url}}
	raw, err := yaml.Marshal(s.Doc)
	if err != nil {
		return fmt.Errorf("encode openapi spec: %w", err)
	}
	s.raw = raw
	return nil
}

// Paths lists the documented paths in sorted order.
func (s *Spec) Paths() []string {
	paths := make([]string, 0, s.Doc.Paths.Len())
	for p := range s.Doc.Paths.Map() {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Operation reports whether method is documented for path.
func (s *Spec) Operation(method, path string) bool {
	item := s.Doc.Paths.Find(path)
	if item == nil {
		return false
	}
	return item.GetOperation(method) != nil
}

// ServeHTTP serves the document exactly as loaded.
func (s *Spec) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(s.raw)
}

func Handler() http.Handler {
	return httpSwagger.Handler(
		httpSwagger.URL(SpecURL),
	)
}
