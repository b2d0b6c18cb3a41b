package config

import (
	"fmt"
	"os"

	"github.com/goliatone/go-signupform/pkg/render"
)

// LoadCatalog reads the message catalog named by Catalog. It returns a nil
// catalog when none is configured.
func (c FormConfig) LoadCatalog() (render.Catalog, error) {
	if c.Catalog == "" {
		return nil, nil
	}
	data, err := os.ReadFile(c.Catalog)
	if err != nil {
		return nil, fmt.Errorf("config: read catalog %s: %w", c.Catalog, err)
	}
	catalog, err := render.ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", c.Catalog, err)
	}
	if _, ok := catalog[c.Locale]; !ok {
		return nil, fmt.Errorf("config: catalog %s has no %q table", c.Catalog, c.Locale)
	}
	return catalog, nil
}
