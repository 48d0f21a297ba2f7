// Package compiler renders data analysis reports described by a template
// document: a tree of titled sections whose components analyse a dataset,
// and a list of writers that emit the result.
package compiler

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// varPrefix marks an attribute value that refers to a dataset file.
const varPrefix = "var:"

// Spec names a component or writer class and its attributes.
type Spec struct {
	Class string         `json:"class" yaml:"class" toml:"class"`
	Attr  map[string]any `json:"attr" yaml:"attr" toml:"attr"`
}

// Section is one node of the report outline.
type Section struct {
	Title     string    `json:"title" yaml:"title" toml:"title"`
	Desc      string    `json:"desc" yaml:"desc" toml:"desc"`
	Component *Spec     `json:"component" yaml:"component" toml:"component"`
	Sections  []Section `json:"sections" yaml:"sections" toml:"sections"`
}

// Configuration is a parsed report template.
type Configuration struct {
	Name         string    `json:"name" yaml:"name" toml:"name"`
	Overview     bool      `json:"overview" yaml:"overview" toml:"overview"`
	ContentTable bool      `json:"content_table" yaml:"content_table" toml:"content_table"`
	Contents     []Section `json:"contents" yaml:"contents" toml:"contents"`
	Writers      []Spec    `json:"writers" yaml:"writers" toml:"writers"`

	// directory of the template file; relative paths resolve against it
	dir string
}

// NewConfiguration reads a JSON, YAML or TOML template, picked by file extension.
func NewConfiguration(path string) (*Configuration, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("compiler: template %s is empty", path)
	}

	cfg := &Configuration{dir: filepath.Dir(path)}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, cfg)
	case ".toml":
		err = toml.Unmarshal(raw, cfg)
	default:
		err = json.Unmarshal(raw, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("compiler: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("compiler: %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Configuration) validate() error {
	if c.Name == "" {
		return errors.New("template has no name")
	}
	if len(c.Writers) == 0 {
		return errors.New("template has no writers")
	}
	var check func([]Section) error
	check = func(sections []Section) error {
		for _, s := range sections {
			if s.Title == "" {
				return errors.New("section without title")
			}
			if s.Component != nil && s.Component.Class == "" {
				return fmt.Errorf("section %q: component without class", s.Title)
			}
			if err := check(s.Sections); err != nil {
				return err
			}
		}
		return nil
	}
	return check(c.Contents)
}

// resolve turns a relative path into one relative to the template file.
func (c *Configuration) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dir, path)
}

func attrString(attr map[string]any, key, def string) string {
	if v, ok := attr[key].(string); ok && v != "" {
		return v
	}
	return def
}

func attrFloat(attr map[string]any, key string, def float64) float64 {
	switch v := attr[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return def
}
