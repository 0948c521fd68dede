// Package doodle places decorative background images across a viewport.
//
// Placement runs in two phases. A grid phase drops one instance into each
// of a shuffled set of cells, which spreads instances out without any
// collision bookkeeping. A random phase then tries to fit the overflow
// anywhere in the viewport, rejecting candidates that intersect an
// earlier box and silently dropping an instance once its retries run out.
package doodle

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// Category is a doodle category key such as "cbl". The empty category
// selects the whole catalog.
type Category string

// catalogFile is the on-disk layout of a catalog, in YAML or TOML.
type catalogFile struct {
	BasePath   string               `yaml:"base_path" toml:"base_path"`
	Positions  map[string]string    `yaml:"positions" toml:"positions"`
	Categories []catalogFileSection `yaml:"categories" toml:"categories"`
}

type catalogFileSection struct {
	Key    string   `yaml:"key" toml:"key"`
	Images []string `yaml:"images" toml:"images"`
}

// Catalog is the static mapping of category keys to image references,
// plus the mapping of position ids to categories. It is built once and
// never mutated.
type Catalog struct {
	keys      []Category
	images    map[Category][]string
	positions map[string]Category
}

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("doodle: embedded catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog file. Files ending in .toml are decoded as
// TOML, anything else as YAML.
func LoadCatalog(file string) (*Catalog, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", file, err)
	}
	parse := ParseCatalog
	if strings.EqualFold(filepath.Ext(file), ".toml") {
		parse = ParseCatalogTOML
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", file, err)
	}
	return c, nil
}

// ParseCatalog builds a Catalog from YAML bytes.
func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.build()
}

// ParseCatalogTOML builds a Catalog from TOML bytes.
func ParseCatalogTOML(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return f.build()
}

func (f catalogFile) build() (*Catalog, error) {
	c := &Catalog{
		images:    make(map[Category][]string),
		positions: make(map[string]Category),
	}
	base := strings.TrimSuffix(f.BasePath, "/")
	for _, sec := range f.Categories {
		key := Category(strings.TrimSpace(sec.Key))
		if key == "" {
			return nil, fmt.Errorf("category with empty key")
		}
		if _, dup := c.images[key]; dup {
			return nil, fmt.Errorf("duplicate category %q", key)
		}
		refs := make([]string, 0, len(sec.Images))
		for _, img := range sec.Images {
			if base != "" {
				img = base + "/" + img
			}
			refs = append(refs, img)
		}
		c.keys = append(c.keys, key)
		c.images[key] = refs
	}
	for id, key := range f.Positions {
		k := Category(key)
		if _, ok := c.images[k]; !ok {
			return nil, fmt.Errorf("position %q maps to unknown category %q", id, key)
		}
		c.positions[id] = k
	}
	return c, nil
}

// Categories returns the category keys in catalog order.
func (c *Catalog) Categories() []Category {
	return append([]Category(nil), c.keys...)
}

// Positions returns the position ids that map to a category, sorted.
func (c *Catalog) Positions() []string {
	ids := make([]string, 0, len(c.positions))
	for id := range c.positions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CategoryFor returns the category mapped to a position id.
func (c *Catalog) CategoryFor(positionID string) (Category, bool) {
	k, ok := c.positions[positionID]
	return k, ok
}

// Select returns the image references for a category, or every image
// in catalog order when category is empty. An unknown category yields
// nothing.
func (c *Catalog) Select(category Category) []string {
	if category == "" {
		var all []string
		for _, k := range c.keys {
			all = append(all, c.images[k]...)
		}
		return all
	}
	return append([]string(nil), c.images[category]...)
}

// Lookup finds the catalog reference whose file name is file.
func (c *Catalog) Lookup(file string) (string, bool) {
	for _, k := range c.keys {
		for _, img := range c.images[k] {
			if path.Base(img) == file {
				return img, true
			}
		}
	}
	return "", false
}

// Has reports whether ref is an image in the catalog.
func (c *Catalog) Has(ref string) bool {
	for _, k := range c.keys {
		for _, img := range c.images[k] {
			if img == ref {
				return true
			}
		}
	}
	return false
}
