// Package analyzer implements the ATS compatibility scoring engine: a pure,
// stateless pipeline from extracted resume text to a structured analysis
// record. It performs no I/O and never returns an error; empty or garbage
// input degrades to zero scores and a full suggestion list.
package analyzer

import (
	"regexp"
	"strings"

	"atscan/internal/types"
)

// Suggestion strings appended by the ordered checklist in buildSuggestions.
// The order and wording are fixed; downstream consumers key off them.
const (
	suggestionMoreKeywords    = "Include more technical and role-specific keywords to boost your ATS ranking."
	suggestionAddSummary      = "Add a professional summary at the top of your resume."
	suggestionAddProjects     = "Include relevant projects to demonstrate your practical experience."
	suggestionMoreTools       = "Mention more tools or platforms like Git, Figma, or AWS."
	suggestionAddEducation    = "Clearly specify your educational background."
	suggestionAddExperience   = "Add work experience, internships, or personal projects."
	suggestionAddSkillSection = "Include a dedicated skills section listing your tools and technologies."
)

const (
	skillScoreThreshold   = 60
	matchedCountThreshold = 8
	maxNameWords          = 4
	skillWeight           = 0.6
	sectionWeight         = 0.4
)

// Analyzer scores resume text against an immutable taxonomy. Safe for
// concurrent use.
type Analyzer struct {
	taxonomy      Taxonomy
	totalKeywords int
	educationRE   *regexp.Regexp
}

// New creates an analyzer for the given taxonomy. The taxonomy must not be
// mutated after this call.
func New(taxonomy Taxonomy) (*Analyzer, error) {
	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}

	// Education is a whole-word match; experience is a plain substring
	// match. The asymmetry is deliberate and observable ("expertise" does
	// not word-match "experience" but would substring-match it), so the
	// two detectors stay separate.
	quoted := make([]string, len(taxonomy.EducationTerms))
	for i, term := range taxonomy.EducationTerms {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(term))
	}
	educationRE, err := regexp.Compile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
	if err != nil {
		return nil, err
	}

	return &Analyzer{
		taxonomy:      taxonomy,
		totalKeywords: taxonomy.TotalKeywords(),
		educationRE:   educationRE,
	}, nil
}

// Taxonomy returns the taxonomy the analyzer was built with
func (a *Analyzer) Taxonomy() Taxonomy {
	return a.taxonomy
}

// Analyze runs the full scoring pipeline over one document's text
func (a *Analyzer) Analyze(text string) types.AnalysisResult {
	lines := splitLines(text)
	lower := strings.ToLower(text)

	skills, matchedByCategory := a.matchKeywords(lower)
	presentSections, missingSections := a.detectSections(lower)

	skillScore := ratioScore(len(skills), a.totalKeywords)
	sectionScore := ratioScore(len(presentSections), len(a.taxonomy.Sections))
	atsScore := int(float64(skillScore)*skillWeight + float64(sectionScore)*sectionWeight)

	education := a.detectEducation(lower)
	experience := a.detectExperience(lower)

	return types.AnalysisResult{
		Name:              detectName(lines),
		Education:         education,
		Experience:        experience,
		Skills:            skills,
		MatchedByCategory: matchedByCategory,
		ATSScore:          atsScore,
		ScoreBreakdown: types.ScoreBreakdown{
			SkillScore:   skillScore,
			SectionScore: sectionScore,
		},
		MissingSections: missingSections,
		Suggestions:     a.buildSuggestions(skillScore, len(skills), presentSections, education, experience),
	}
}

// splitLines returns the trimmed, non-empty lines of the text in original
// order and case
func splitLines(text string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// detectName takes the first line as the candidate name when it looks like
// one (1 to 4 whitespace-delimited words). A document with no lines yields
// the sentinel rather than an out-of-range access.
func detectName(lines []string) string {
	if len(lines) == 0 {
		return types.NotDetected
	}
	words := len(strings.Fields(lines[0]))
	if words >= 1 && words <= maxNameWords {
		return lines[0]
	}
	return types.NotDetected
}

func (a *Analyzer) detectEducation(lower string) string {
	if a.educationRE.MatchString(lower) {
		return types.Detected
	}
	return types.NotDetected
}

func (a *Analyzer) detectExperience(lower string) string {
	for _, term := range a.taxonomy.ExperienceTerms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return types.Detected
		}
	}
	return types.NotDetected
}

// matchKeywords returns the flat matched-keyword list in taxonomy iteration
// order, plus the per-category breakdown. Every configured category appears
// in the map, matched or not.
func (a *Analyzer) matchKeywords(lower string) ([]string, map[string][]string) {
	skills := make([]string, 0)
	byCategory := make(map[string][]string, len(a.taxonomy.Categories))

	for _, cat := range a.taxonomy.Categories {
		matched := make([]string, 0)
		for _, kw := range a.taxonomy.Keywords[cat] {
			if strings.Contains(lower, strings.ToLower(kw)) {
				matched = append(matched, kw)
			}
		}
		byCategory[cat] = matched
		skills = append(skills, matched...)
	}

	return skills, byCategory
}

// detectSections reports which canonical section headers occur anywhere in
// the text. Purely lexical: a substring hit counts even outside a heading.
func (a *Analyzer) detectSections(lower string) (present, missing []string) {
	present = make([]string, 0)
	missing = make([]string, 0)
	for _, sec := range a.taxonomy.Sections {
		if strings.Contains(lower, sec) {
			present = append(present, sec)
		} else {
			missing = append(missing, sec)
		}
	}
	return present, missing
}

// ratioScore converts a matched/total ratio into a 0-100 integer with
// truncating semantics
func ratioScore(matched, total int) int {
	if total == 0 {
		return 0
	}
	return int(float64(matched) / float64(total) * 100)
}

// buildSuggestions applies the fixed, ordered, non-exclusive checklist.
// Each condition independently appends its suggestion; order is significant.
func (a *Analyzer) buildSuggestions(skillScore, matchedCount int, presentSections []string, education, experience string) []string {
	present := make(map[string]bool, len(presentSections))
	for _, sec := range presentSections {
		present[sec] = true
	}

	suggestions := make([]string, 0)
	if skillScore < skillScoreThreshold {
		suggestions = append(suggestions, suggestionMoreKeywords)
	}
	if !present["summary"] {
		suggestions = append(suggestions, suggestionAddSummary)
	}
	if !present["projects"] {
		suggestions = append(suggestions, suggestionAddProjects)
	}
	if matchedCount < matchedCountThreshold {
		suggestions = append(suggestions, suggestionMoreTools)
	}
	if education == types.NotDetected {
		suggestions = append(suggestions, suggestionAddEducation)
	}
	if experience == types.NotDetected {
		suggestions = append(suggestions, suggestionAddExperience)
	}
	if !present["skills"] {
		suggestions = append(suggestions, suggestionAddSkillSection)
	}
	return suggestions
}
