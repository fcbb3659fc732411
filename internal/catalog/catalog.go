// Package catalog defines the fixed set of recurring expense categories and
// the normalization rule that maps raw ledger descriptions onto them.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"fbarbosa/cobrador/internal/config"
	"fbarbosa/cobrador/internal/models"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Catalog is the closed, ordered set of recurring expense categories.
// Immutable after construction; inject it into the classifier and builder
// rather than sharing global state.
type Catalog struct {
	categories []models.Category
}

// New creates a catalog from the given category names, preserving order.
func New(names ...string) Catalog {
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		categories = append(categories, models.Category{Name: name})
	}
	return Catalog{categories: categories}
}

// Default returns the built-in recurring catalog.
func Default() Catalog {
	return New("Fee", "Lunch", "Fridge")
}

// Categories returns the catalog's categories in order.
func (c Catalog) Categories() []models.Category {
	out := make([]models.Category, len(c.categories))
	copy(out, c.categories)
	return out
}

// Size returns the number of categories in the catalog.
func (c Catalog) Size() int {
	return len(c.categories)
}

// Normalize reduces a raw ledger expense description to a catalog category.
// The rule is exact: take the first whitespace-delimited token, lower-case it,
// and look it up against the lower-cased category names. No fuzzy matching.
func (c Catalog) Normalize(raw string) (models.Category, bool) {
	key := NormalizeHint(raw)
	if key == "" {
		return models.Category{}, false
	}
	for _, cat := range c.categories {
		if strings.ToLower(cat.Name) == key {
			return cat, true
		}
	}
	return models.Category{}, false
}

// NormalizeHint returns the lower-cased first token of a raw description, or
// the empty string if the description is blank.
func NormalizeHint(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// categoriesFile is the YAML structure of the catalog file:
//
//	categories:
//	  - name: Fee
//	  - name: Lunch
type categoriesFile struct {
	Categories []models.Category `yaml:"categories"`
}

// Load reads the catalog from a YAML file. A missing file is not an error:
// the built-in default catalog is returned so the tool works out of the box.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf("Catalog file not found: %s, using defaults", path)
			return Default(), nil
		}
		return Catalog{}, fmt.Errorf("error reading catalog file: %w", err)
	}

	var parsed categoriesFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return Catalog{}, fmt.Errorf("error parsing catalog file %s: %w", path, err)
	}
	if len(parsed.Categories) == 0 {
		return Catalog{}, fmt.Errorf("catalog file %s defines no categories", path)
	}

	log.WithField("count", len(parsed.Categories)).Debug("Loaded categories from file")
	return Catalog{categories: parsed.Categories}, nil
}
