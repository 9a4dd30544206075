package classify

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var categoriesYAML []byte

// TechCategory is one technology category from the embedded catalog.
type TechCategory struct {
	Name string `yaml:"name"`
	// Keywords derive the weak training labels for the category.
	Keywords []string `yaml:"keywords"`
	// Representative technologies are contributed by the ML extraction path
	// when the category clears the probability threshold.
	Representative []string `yaml:"representative"`
}

type catalog struct {
	Categories []TechCategory `yaml:"categories"`
}

// loadCatalog parses the embedded category catalog. The catalog ships with
// the binary, so a parse failure is a build defect.
func loadCatalog() ([]TechCategory, error) {
	var c catalog
	if err := yaml.Unmarshal(categoriesYAML, &c); err != nil {
		return nil, fmt.Errorf("parsing embedded category catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, fmt.Errorf("embedded category catalog is empty")
	}
	return c.Categories, nil
}
