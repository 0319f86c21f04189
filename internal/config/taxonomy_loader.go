package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"atscan/internal/analyzer"

	"github.com/spf13/viper"
)

// taxonomyFileSpec is the on-disk shape of a taxonomy override file.
// Categories are a list, not a map, so their order survives parsing and
// fixes the keyword iteration order of the analyzer.
type taxonomyFileSpec struct {
	Categories []taxonomyCategorySpec `mapstructure:"categories"`
	Sections   []string               `mapstructure:"sections"`

	// Optional detector vocabularies; built-in defaults apply when omitted
	EducationTerms  []string `mapstructure:"educationTerms"`
	ExperienceTerms []string `mapstructure:"experienceTerms"`
}

type taxonomyCategorySpec struct {
	Name     string   `mapstructure:"name"`
	Keywords []string `mapstructure:"keywords"`
}

// LoadTaxonomy returns the taxonomy the analyzer should run with. Without a
// configured taxonomy file the built-in default is used. The result is
// loaded once and treated as immutable afterwards.
func (c *Config) LoadTaxonomy() (analyzer.Taxonomy, error) {
	if c.Analyzer.TaxonomyFile == "" {
		log.Println("[CONFIG] No taxonomy file configured, using built-in taxonomy")
		return analyzer.DefaultTaxonomy(), nil
	}

	absPath, err := filepath.Abs(c.Analyzer.TaxonomyFile)
	if err != nil {
		return analyzer.Taxonomy{}, fmt.Errorf("failed to resolve taxonomy file path '%s': %w", c.Analyzer.TaxonomyFile, err)
	}

	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return analyzer.Taxonomy{}, fmt.Errorf("taxonomy file not found: %s", absPath)
	}

	v := viper.New()
	v.SetConfigFile(absPath)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return analyzer.Taxonomy{}, fmt.Errorf("failed to read taxonomy file '%s': %w", absPath, err)
	}

	var spec taxonomyFileSpec
	if err := v.Unmarshal(&spec); err != nil {
		return analyzer.Taxonomy{}, fmt.Errorf("failed to parse taxonomy file '%s': %w", absPath, err)
	}

	taxonomy, err := buildTaxonomy(spec)
	if err != nil {
		return analyzer.Taxonomy{}, fmt.Errorf("invalid taxonomy file '%s': %w", absPath, err)
	}

	log.Printf("[CONFIG] Successfully loaded taxonomy from file: %s (%d categories, %d keywords, %d sections)",
		absPath, len(taxonomy.Categories), taxonomy.TotalKeywords(), len(taxonomy.Sections))

	return taxonomy, nil
}

// buildTaxonomy converts the file spec into an analyzer taxonomy, filling
// the detector vocabularies from the defaults when the file omits them
func buildTaxonomy(spec taxonomyFileSpec) (analyzer.Taxonomy, error) {
	defaults := analyzer.DefaultTaxonomy()

	taxonomy := analyzer.Taxonomy{
		Categories:      make([]string, 0, len(spec.Categories)),
		Keywords:        make(map[string][]string, len(spec.Categories)),
		Sections:        spec.Sections,
		EducationTerms:  spec.EducationTerms,
		ExperienceTerms: spec.ExperienceTerms,
	}

	for _, cat := range spec.Categories {
		if cat.Name == "" {
			return analyzer.Taxonomy{}, fmt.Errorf("category with empty name")
		}
		if _, exists := taxonomy.Keywords[cat.Name]; exists {
			return analyzer.Taxonomy{}, fmt.Errorf("duplicate category: %s", cat.Name)
		}
		taxonomy.Categories = append(taxonomy.Categories, cat.Name)
		taxonomy.Keywords[cat.Name] = cat.Keywords
	}

	if len(taxonomy.EducationTerms) == 0 {
		taxonomy.EducationTerms = defaults.EducationTerms
	}
	if len(taxonomy.ExperienceTerms) == 0 {
		taxonomy.ExperienceTerms = defaults.ExperienceTerms
	}

	if err := taxonomy.Validate(); err != nil {
		return analyzer.Taxonomy{}, err
	}

	return taxonomy, nil
}
