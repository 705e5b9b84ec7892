package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"facr-builder/internal/model"
)

// LoadYAML parses a service catalog document: a top-level mapping of service
// name to definition, with endpoint entries keyed `hostname` and
// `protocol_port` and optional `outgoing`, `bi-directional` and `lob` keys.
func LoadYAML(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read service catalog: %w", err)
	}

	var raw map[string]model.ServiceDefinition
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse service catalog: %w", err)
	}

	c := newCatalog()
	for name, svc := range raw {
		c.add(name, svc)
	}
	return c, nil
}
