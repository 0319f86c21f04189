package analyzer

import (
	"fmt"
)

// Taxonomy holds the static knowledge tables the analyzer matches against.
// It is injected at construction time and treated as immutable afterwards,
// so a single analyzer can serve concurrent callers without locking.
type Taxonomy struct {
	// Categories fixes the iteration order over Keywords. Go maps are
	// unordered, and matched-keyword ordering is part of the output contract.
	Categories []string
	Keywords   map[string][]string
	Sections   []string

	// Vocabularies for the presence detectors. Education terms are matched
	// on word boundaries, experience terms as plain substrings.
	EducationTerms  []string
	ExperienceTerms []string
}

// Validate checks that the taxonomy is internally consistent
func (t *Taxonomy) Validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("taxonomy has no categories")
	}
	for _, cat := range t.Categories {
		kws, ok := t.Keywords[cat]
		if !ok {
			return fmt.Errorf("category %q has no keyword list", cat)
		}
		if len(kws) == 0 {
			return fmt.Errorf("category %q has an empty keyword list", cat)
		}
	}
	if len(t.Keywords) != len(t.Categories) {
		return fmt.Errorf("keyword map has %d categories, expected %d", len(t.Keywords), len(t.Categories))
	}
	if len(t.Sections) == 0 {
		return fmt.Errorf("taxonomy has no sections")
	}
	return nil
}

// TotalKeywords returns the number of keywords across all categories
func (t *Taxonomy) TotalKeywords() int {
	total := 0
	for _, cat := range t.Categories {
		total += len(t.Keywords[cat])
	}
	return total
}

// DefaultTaxonomy returns the built-in keyword and section tables used when
// no taxonomy file is configured
func DefaultTaxonomy() Taxonomy {
	return Taxonomy{
		Categories: []string{"technical", "uiux", "business"},
		Keywords: map[string][]string{
			"technical": {"python", "java", "c++", "javascript", "react", "nodejs", "django", "flask", "html", "css", "sql", "mongodb", "mysql", "git", "github", "linux", "aws", "docker", "kubernetes"},
			"uiux":      {"figma", "adobe xd", "photoshop", "illustrator", "ux", "ui", "wireframing", "branding", "canva", "visual design"},
			"business":  {"seo", "sem", "content marketing", "social media", "facebook ads", "google ads", "email marketing", "analytics", "brand development", "project management", "digital marketing"},
		},
		Sections:        []string{"summary", "education", "experience", "projects", "skills", "certifications", "achievements"},
		EducationTerms:  []string{"bachelor", "master", "education", "degree"},
		ExperienceTerms: []string{"experience", "years", "worked", "intern", "project", "developed"},
	}
}
