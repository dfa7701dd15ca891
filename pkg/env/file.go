package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadDotenv reads variables from one or more dotenv files. Files are merged
// in the order given, later files overriding earlier ones.
func LoadDotenv(paths ...string) (Source, error) {
	sources := make([]Source, 0, len(paths))
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			return Source{}, fmt.Errorf("failed to open dotenv file: %w", err)
		}

		// godotenv returns a map, so file order is lost; FromMap keeps it stable
		values, err := godotenv.Parse(file)
		file.Close()
		if err != nil {
			return Source{}, fmt.Errorf("failed to parse dotenv file %s: %w", path, err)
		}

		sources = append(sources, FromMap(values))
	}
	return Merge(sources...), nil
}

// LoadYAML reads variables from a flat YAML mapping such as
//
//	SELENIUM_BROWSER: chrome
//	SELENIUM_PORT: 4444
//
// Scalars are taken verbatim (so "10.0" stays "10.0"), null becomes an empty
// value, and nested mappings or sequences are rejected. An empty file yields
// an empty source.
func LoadYAML(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Source{}, fmt.Errorf("failed to read yaml file: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Source{}, fmt.Errorf("failed to parse yaml file %s: %w", path, err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Source{}, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return Source{}, fmt.Errorf("yaml file %s: expected a mapping at top level", path)
	}

	b := newBuilder()
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			return Source{}, fmt.Errorf("yaml file %s: value of %s must be a scalar (line %d)", path, key.Value, value.Line)
		}
		if value.Tag == "!!null" {
			b.set(key.Value, "")
			continue
		}
		b.set(key.Value, value.Value)
	}
	return b.source(), nil
}
