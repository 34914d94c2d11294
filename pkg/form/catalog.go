package form

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	KindInteger = "integer"
	KindSelect  = "select"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type Field struct {
	Key     string   `yaml:"key" json:"key"`
	Label   string   `yaml:"label,omitempty" json:"label"`
	Kind    string   `yaml:"kind" json:"kind"`
	Min     *int     `yaml:"min,omitempty" json:"min,omitempty"`
	Max     *int     `yaml:"max,omitempty" json:"max,omitempty"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
}

// PlanShare is one slice of the plan distribution chart.
type PlanShare struct {
	Plan    string  `yaml:"plan" json:"plan"`
	Percent float64 `yaml:"percent" json:"percent"`
}

type Catalog struct {
	Title            string      `yaml:"title" json:"title"`
	Fields           []Field     `yaml:"fields" json:"fields"`
	PlanDistribution []PlanShare `yaml:"plan_distribution" json:"plan_distribution"`
}

// Load reads a catalog override, or the embedded catalog when path is empty.
func Load(path string) (Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Catalog{}, err
	}
	return parse(content)
}

func Default() Catalog {
	cat, err := parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded form catalog: %v", err))
	}
	return cat
}

func parse(content []byte) (Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(content, &cat); err != nil {
		return Catalog{}, err
	}
	if len(cat.Fields) == 0 {
		return Catalog{}, fmt.Errorf("form catalog has no fields")
	}
	for i, f := range cat.Fields {
		if f.Key == "" {
			return Catalog{}, fmt.Errorf("form field %d has no key", i)
		}
		switch f.Kind {
		case KindInteger:
			if f.Min == nil || f.Max == nil || *f.Min > *f.Max {
				return Catalog{}, fmt.Errorf("form field %s needs min <= max", f.Key)
			}
		case KindSelect:
			if len(f.Options) == 0 {
				return Catalog{}, fmt.Errorf("form field %s has no options", f.Key)
			}
		default:
			return Catalog{}, fmt.Errorf("form field %s has unknown kind %q", f.Key, f.Kind)
		}
		if f.Label == "" {
			cat.Fields[i].Label = f.Key
		}
	}
	return cat, nil
}

func (c Catalog) Field(key string) (Field, bool) {
	for _, f := range c.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Defaults is the record the form shows before the user changes anything:
// the lower bound of each integer and the first option of each select.
func (c Catalog) Defaults() map[string]interface{} {
	out := make(map[string]interface{}, len(c.Fields))
	for _, f := range c.Fields {
		switch f.Kind {
		case KindInteger:
			out[f.Key] = *f.Min
		case KindSelect:
			out[f.Key] = f.Options[0]
		}
	}
	return out
}
