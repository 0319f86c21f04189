package formatters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atscan/internal/types"
)

func sampleResult() types.AnalysisResult {
	return types.AnalysisResult{
		Name:       "Jane Doe",
		Education:  types.Detected,
		Experience: types.NotDetected,
		Skills:     []string{"python", "sql"},
		MatchedByCategory: map[string][]string{
			"technical": {"python", "sql"},
		},
		ATSScore: 62,
		ScoreBreakdown: types.ScoreBreakdown{
			SkillScore:   5,
			SectionScore: 50,
		},
		MissingSections: []string{"projects", "certifications"},
		Suggestions:     []string{"Add a projects section"},
	}
}

func TestJSONFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "Jane Doe"`)
	assert.Contains(t, out, `"ats_score": 62`)
	assert.Contains(t, out, `"education": "Detected"`)
}

func TestTextFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "text")
	require.NoError(t, err)
	assert.Contains(t, out, "ATS Score: 62/100")
	assert.Contains(t, out, "Name:       Jane Doe")
	assert.Contains(t, out, "- python")
	assert.Contains(t, out, "- projects")
	assert.Contains(t, out, "1. Add a projects section")
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(sampleResult(), "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "# ATS Compatibility Report")
	assert.Contains(t, out, "**ATS Score:** 62/100")
	assert.Contains(t, out, "## Missing Sections")
}

func TestParseResumeOutputUsesAnalysisFormatter(t *testing.T) {
	out, err := GlobalRegistry.Format(types.ParseResumeOutput{
		AnalysisResult: sampleResult(),
		FileURL:        "http://example.com/resumes/x.txt",
	}, "text")
	require.NoError(t, err)
	assert.Contains(t, out, "ATS Score: 62/100")
}

func TestUnknownFormat(t *testing.T) {
	_, err := GlobalRegistry.Format(sampleResult(), "yaml")
	assert.Error(t, err)
}
