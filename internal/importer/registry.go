package importer

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed config/docs.yaml
var docsYAML embed.FS

// Registry holds the import configuration: which case-study documents exist
// and which category each one feeds.
type Registry struct {
	DocsDir          string           `yaml:"docs_dir"`
	BatchSize        int              `yaml:"batch_size,omitempty"`         // Default: 5
	BatchesPerSecond float64          `yaml:"batches_per_second,omitempty"` // Default: 0.5
	Documents        []DocumentConfig `yaml:"documents"`
}

// DocumentConfig maps one source markdown file to a category slug.
type DocumentConfig struct {
	File     string `yaml:"file"`
	Category string `yaml:"category"`
}

// LoadRegistry reads the embedded docs.yaml and returns a Registry.
// The path parameter is kept for local overrides and tried first when set.
func LoadRegistry(path string) (*Registry, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	}
	if path == "" || err != nil {
		data, err = docsYAML.ReadFile("config/docs.yaml")
		if err != nil {
			return nil, err
		}
	}

	// Expand environment variables within the YAML content (e.g. ${DOCS_DIR})
	expanded := os.ExpandEnv(string(data))

	var reg Registry
	if err := yaml.Unmarshal([]byte(expanded), &reg); err != nil {
		return nil, err
	}
	if len(reg.Documents) == 0 {
		return nil, fmt.Errorf("registry lists no documents")
	}
	if reg.DocsDir == "" {
		reg.DocsDir = "docs"
	}
	if reg.BatchSize <= 0 {
		reg.BatchSize = 5
	}
	if reg.BatchesPerSecond <= 0 {
		reg.BatchesPerSecond = 0.5
	}
	return &reg, nil
}
