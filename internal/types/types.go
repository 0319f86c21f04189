package types

// AnalyzeResumeInput represents the input for analyzing resume text
type AnalyzeResumeInput struct {
	ResumeText string `json:"resumeText"`
}

// ScoreBreakdown represents the weighted components of the ATS score
type ScoreBreakdown struct {
	SkillScore   int `json:"skill_score"`   // 0-100, share of taxonomy keywords found
	SectionScore int `json:"section_score"` // 0-100, share of expected sections found
}

// Sentinel values for the name and presence detectors.
const (
	Detected    = "Detected"
	NotDetected = "Not Detected"
)

// AnalysisResult represents the full outcome of a resume compatibility analysis.
// Every field is always populated; empty collections are emitted as empty, not null.
type AnalysisResult struct {
	Name              string              `json:"name"`
	Education         string              `json:"education"`
	Experience        string              `json:"experience"`
	Skills            []string            `json:"skills"`
	MatchedByCategory map[string][]string `json:"matched_by_category"`
	ATSScore          int                 `json:"ats_score"`
	ScoreBreakdown    ScoreBreakdown      `json:"ats_score_breakdown"`
	MissingSections   []string            `json:"missing_sections"`
	Suggestions       []string            `json:"suggestions"`
}

// ParseResumeOutput represents the response for an uploaded resume file:
// the analysis plus the public URL of the stored original.
type ParseResumeOutput struct {
	AnalysisResult
	FileURL string `json:"file_url"`
}
