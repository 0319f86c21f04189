package analyzer

import (
	"reflect"
	"strings"
	"testing"

	"atscan/internal/types"
)

func newDefaultAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(DefaultTaxonomy())
	if err != nil {
		t.Fatalf("New() with default taxonomy failed: %v", err)
	}
	return a
}

// allContentText builds a document containing every keyword and every
// section header of the taxonomy verbatim.
func allContentText(tax Taxonomy) string {
	var parts []string
	for _, cat := range tax.Categories {
		parts = append(parts, tax.Keywords[cat]...)
	}
	parts = append(parts, tax.Sections...)
	return strings.Join(parts, "\n")
}

func TestAnalyzeTypicalResume(t *testing.T) {
	a := newDefaultAnalyzer(t)
	text := "John Smith\nExperience: developed a Django project using Python and Git.\nEducation: Bachelor degree."
	result := a.Analyze(text)

	if result.Name != "John Smith" {
		t.Errorf("Name = %q, want %q", result.Name, "John Smith")
	}
	if result.Education != types.Detected {
		t.Errorf("Education = %q, want %q", result.Education, types.Detected)
	}
	if result.Experience != types.Detected {
		t.Errorf("Experience = %q, want %q", result.Experience, types.Detected)
	}

	for _, want := range []string{"python", "django", "git"} {
		found := false
		for _, kw := range result.Skills {
			if kw == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Skills = %v, missing %q", result.Skills, want)
		}
	}

	// No dedicated skills section in the text, so the checklist must
	// suggest adding one.
	hasSkillSuggestion := false
	for _, s := range result.Suggestions {
		if s == suggestionAddSkillSection {
			hasSkillSuggestion = true
		}
	}
	if !hasSkillSuggestion {
		t.Errorf("Suggestions = %v, missing dedicated skills section suggestion", result.Suggestions)
	}
}

func TestAnalyzeEmptyText(t *testing.T) {
	a := newDefaultAnalyzer(t)
	result := a.Analyze("")

	if result.Name != types.NotDetected {
		t.Errorf("Name = %q, want %q", result.Name, types.NotDetected)
	}
	if result.Education != types.NotDetected {
		t.Errorf("Education = %q, want %q", result.Education, types.NotDetected)
	}
	if result.Experience != types.NotDetected {
		t.Errorf("Experience = %q, want %q", result.Experience, types.NotDetected)
	}
	if len(result.Skills) != 0 {
		t.Errorf("Skills = %v, want empty", result.Skills)
	}
	if result.ScoreBreakdown.SkillScore != 0 || result.ScoreBreakdown.SectionScore != 0 || result.ATSScore != 0 {
		t.Errorf("scores = %d/%d/%d, want 0/0/0",
			result.ScoreBreakdown.SkillScore, result.ScoreBreakdown.SectionScore, result.ATSScore)
	}
	if len(result.MissingSections) != len(DefaultTaxonomy().Sections) {
		t.Errorf("MissingSections = %v, want all %d sections", result.MissingSections, len(DefaultTaxonomy().Sections))
	}
	if len(result.Suggestions) != 7 {
		t.Errorf("Suggestions = %v, want all 7", result.Suggestions)
	}
}

func TestAnalyzeFullCoverage(t *testing.T) {
	tax := DefaultTaxonomy()
	a := newDefaultAnalyzer(t)
	result := a.Analyze(allContentText(tax))

	if result.ScoreBreakdown.SkillScore != 100 {
		t.Errorf("SkillScore = %d, want 100", result.ScoreBreakdown.SkillScore)
	}
	if result.ScoreBreakdown.SectionScore != 100 {
		t.Errorf("SectionScore = %d, want 100", result.ScoreBreakdown.SectionScore)
	}
	if result.ATSScore != 100 {
		t.Errorf("ATSScore = %d, want 100", result.ATSScore)
	}
	if len(result.MissingSections) != 0 {
		t.Errorf("MissingSections = %v, want empty", result.MissingSections)
	}
	if len(result.Suggestions) != 0 {
		t.Errorf("Suggestions = %v, want empty", result.Suggestions)
	}
}

func TestScoreInvariants(t *testing.T) {
	a := newDefaultAnalyzer(t)
	inputs := []string{
		"",
		"just some unrelated text",
		"python sql docker summary skills",
		"John Smith\nSkills: python, react, figma, seo, git, aws, docker, html\nEducation: Master degree\nExperience",
		allContentText(DefaultTaxonomy()),
	}

	for _, text := range inputs {
		result := a.Analyze(text)
		skill := result.ScoreBreakdown.SkillScore
		section := result.ScoreBreakdown.SectionScore

		if skill < 0 || skill > 100 {
			t.Errorf("SkillScore = %d out of range for %q", skill, text)
		}
		if section < 0 || section > 100 {
			t.Errorf("SectionScore = %d out of range for %q", section, text)
		}
		want := int(float64(skill)*0.6 + float64(section)*0.4)
		if result.ATSScore != want {
			t.Errorf("ATSScore = %d, want %d (skill=%d section=%d)", result.ATSScore, want, skill, section)
		}
	}
}

func TestSectionPartition(t *testing.T) {
	a := newDefaultAnalyzer(t)
	tax := DefaultTaxonomy()
	inputs := []string{
		"",
		"summary and skills only",
		"education experience projects",
		allContentText(tax),
	}

	for _, text := range inputs {
		result := a.Analyze(text)

		seen := make(map[string]int)
		for _, sec := range result.MissingSections {
			seen[sec]++
		}
		presentCount := len(tax.Sections) - len(result.MissingSections)
		if presentCount < 0 {
			t.Fatalf("MissingSections = %v larger than taxonomy for %q", result.MissingSections, text)
		}
		for _, sec := range result.MissingSections {
			if seen[sec] != 1 {
				t.Errorf("section %q appears %d times in MissingSections for %q", sec, seen[sec], text)
			}
			if strings.Contains(strings.ToLower(text), sec) {
				t.Errorf("section %q reported missing but present in %q", sec, text)
			}
		}
		for _, sec := range tax.Sections {
			if !strings.Contains(strings.ToLower(text), sec) && seen[sec] == 0 {
				t.Errorf("section %q absent from text but not in MissingSections for %q", sec, text)
			}
		}
	}
}

func TestAnalyzeIdempotent(t *testing.T) {
	a := newDefaultAnalyzer(t)
	text := "Jane Doe\nSkills: python, figma\nEducation: Bachelor of Science"

	first := a.Analyze(text)
	second := a.Analyze(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("repeated analysis differs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestSkillScoreMonotonic(t *testing.T) {
	a := newDefaultAnalyzer(t)
	base := "Jane Doe\nworked with python and sql"
	extended := base + "\nalso react, docker, aws, figma"

	baseScore := a.Analyze(base).ScoreBreakdown.SkillScore
	extendedScore := a.Analyze(extended).ScoreBreakdown.SkillScore
	if extendedScore < baseScore {
		t.Errorf("adding keywords decreased skill score: %d -> %d", baseScore, extendedScore)
	}
}

func TestCategoryIntegrity(t *testing.T) {
	tax := DefaultTaxonomy()
	a := newDefaultAnalyzer(t)
	result := a.Analyze("python react figma seo git analytics branding summary skills")

	inCategory := make(map[string]map[string]bool)
	for cat, kws := range tax.Keywords {
		inCategory[cat] = make(map[string]bool)
		for _, kw := range kws {
			inCategory[cat][kw] = true
		}
	}

	var flattened []string
	for _, cat := range tax.Categories {
		matched, ok := result.MatchedByCategory[cat]
		if !ok {
			t.Fatalf("MatchedByCategory missing category %q", cat)
		}
		for _, kw := range matched {
			if !inCategory[cat][kw] {
				t.Errorf("keyword %q in category %q is not part of the taxonomy", kw, cat)
			}
		}
		flattened = append(flattened, matched...)
	}

	if !reflect.DeepEqual(result.Skills, flattened) {
		t.Errorf("Skills = %v, want per-category union %v", result.Skills, flattened)
	}
}

func TestDetectName(t *testing.T) {
	a := newDefaultAnalyzer(t)
	tests := []struct {
		name string
		text string
		want string
	}{
		{"single word", "Madonna\nsome text", "Madonna"},
		{"two words", "John Smith\nExperience", "John Smith"},
		{"four words", "Dr John Q Smith\nExperience", "Dr John Q Smith"},
		{"five words rejected", "A B C D E\nExperience", types.NotDetected},
		{"empty document", "", types.NotDetected},
		{"whitespace only", "   \n  \n", types.NotDetected},
		{"leading blank lines skipped", "\n\nJohn Smith\nExperience", "John Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Analyze(tt.text).Name; got != tt.want {
				t.Errorf("Name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPresenceDetectors(t *testing.T) {
	a := newDefaultAnalyzer(t)
	tests := []struct {
		name           string
		text           string
		wantEducation  string
		wantExperience string
	}{
		{"bachelor word", "holds a Bachelor of Arts", types.Detected, types.NotDetected},
		{"degree inside larger word", "degreed professional", types.NotDetected, types.NotDetected},
		{"bachelor with apostrophe", "bachelor's in CS", types.Detected, types.NotDetected},
		{"experience substring", "expertise in many years of work", types.NotDetected, types.Detected},
		{"developed substring", "developedsoftware", types.NotDetected, types.Detected},
		{"neither", "hello world", types.NotDetected, types.NotDetected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := a.Analyze(tt.text)
			if result.Education != tt.wantEducation {
				t.Errorf("Education = %q, want %q", result.Education, tt.wantEducation)
			}
			if result.Experience != tt.wantExperience {
				t.Errorf("Experience = %q, want %q", result.Experience, tt.wantExperience)
			}
		})
	}
}

func TestCustomTaxonomy(t *testing.T) {
	tax := Taxonomy{
		Categories: []string{"data", "infra"},
		Keywords: map[string][]string{
			"data":  {"pandas", "spark"},
			"infra": {"terraform", "ansible"},
		},
		Sections:        []string{"skills", "experience"},
		EducationTerms:  []string{"phd"},
		ExperienceTerms: []string{"shipped"},
	}
	a, err := New(tax)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	result := a.Analyze("shipped spark pipelines with terraform\nskills")
	if result.ScoreBreakdown.SkillScore != 50 {
		t.Errorf("SkillScore = %d, want 50", result.ScoreBreakdown.SkillScore)
	}
	if result.ScoreBreakdown.SectionScore != 50 {
		t.Errorf("SectionScore = %d, want 50", result.ScoreBreakdown.SectionScore)
	}
	if result.Experience != types.Detected {
		t.Errorf("Experience = %q, want %q", result.Experience, types.Detected)
	}
	if result.Education != types.NotDetected {
		t.Errorf("Education = %q, want %q", result.Education, types.NotDetected)
	}
	if got := result.MatchedByCategory["data"]; !reflect.DeepEqual(got, []string{"spark"}) {
		t.Errorf("MatchedByCategory[data] = %v, want [spark]", got)
	}
}

func TestTaxonomyValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Taxonomy)
		wantErr bool
	}{
		{"valid default", func(t *Taxonomy) {}, false},
		{"no categories", func(t *Taxonomy) { t.Categories = nil }, true},
		{"category without keywords", func(t *Taxonomy) { t.Categories = append(t.Categories, "extra") }, true},
		{"empty keyword list", func(t *Taxonomy) { t.Keywords["technical"] = nil }, true},
		{"no sections", func(t *Taxonomy) { t.Sections = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tax := DefaultTaxonomy()
			tt.mutate(&tax)
			err := tax.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
