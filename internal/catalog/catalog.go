// Package catalog loads and serves named service definitions. Two providers
// exist: a YAML file and a MariaDB database. Lookups are case-insensitive.
package catalog

import (
	"sort"
	"strings"

	"facr-builder/internal/model"
)

type Catalog struct {
	services map[string]model.ServiceDefinition
}

func newCatalog() *Catalog {
	return &Catalog{services: make(map[string]model.ServiceDefinition)}
}

// add registers a definition under its lowercased name and applies the
// default LOB tag.
func (c *Catalog) add(name string, svc model.ServiceDefinition) {
	if svc.LOB == "" {
		svc.LOB = model.DefaultServiceLOB
	}
	c.services[strings.ToLower(name)] = svc
}

// Get returns the definition registered under name, matching
// case-insensitively.
func (c *Catalog) Get(name string) (model.ServiceDefinition, bool) {
	svc, ok := c.services[strings.ToLower(name)]
	return svc, ok
}

// Names returns all registered service names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.services))
	for name := range c.services {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of registered services.
func (c *Catalog) Len() int {
	return len(c.services)
}
