package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Param is a constructor parameter of a catalogued type.
type Param struct {
	Name string `yaml:"name" json:"name"`
	Type string `yaml:"type" json:"type"`
}

// Constructor is one constructor overload. Access defaults to public.
type Constructor struct {
	Access string  `yaml:"access,omitempty" json:"access,omitempty"`
	Params []Param `yaml:"params,omitempty" json:"params,omitempty"`
}

// Type describes a type that is not declared in the document being refactored,
// typically a framework abstraction or a library base class.
type Type struct {
	Name         string        `yaml:"name" json:"name"`
	Kind         string        `yaml:"kind" json:"kind"`
	Abstract     bool          `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Base         string        `yaml:"base,omitempty" json:"base,omitempty"`
	Constructors []Constructor `yaml:"constructors,omitempty" json:"constructors,omitempty"`
}

// Catalog is a named set of type descriptions.
type Catalog struct {
	Types []Type `yaml:"types" json:"types"`
}

//go:embed default.yaml
var defaultCatalog []byte

// Default returns the built-in catalog of common framework abstractions.
func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic("invalid built-in catalog: " + err.Error())
	}
	return c
}

// Load reads a catalog from the provided path. If the file does not exist,
// an empty catalog is returned.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Catalog{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	for i, t := range c.Types {
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("catalog type %d: missing name", i)
		}
		switch t.Kind {
		case "class", "interface", "struct", "enum":
		default:
			return nil, fmt.Errorf("catalog type %q: unknown kind %q", t.Name, t.Kind)
		}
	}
	return &c, nil
}

// Save writes the catalog to the provided path, creating parent directories as needed.
func (c *Catalog) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create catalog directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	return nil
}

// Add records a type, replacing an existing entry with the same name.
func (c *Catalog) Add(t Type) {
	for i := range c.Types {
		if c.Types[i].Name == t.Name {
			c.Types[i] = t
			return
		}
	}
	c.Types = append(c.Types, t)
}

// Merge folds others into c in order; later entries win on name clashes.
func (c *Catalog) Merge(others ...*Catalog) *Catalog {
	for _, o := range others {
		if o == nil {
			continue
		}
		for _, t := range o.Types {
			c.Add(t)
		}
	}
	return c
}

// Find returns the type with the given name, if present.
func (c *Catalog) Find(name string) (Type, bool) {
	for _, t := range c.Types {
		if t.Name == name {
			return t, true
		}
	}
	return Type{}, false
}
