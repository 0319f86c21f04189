package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"atscan/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	// Register default formatters
	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "AnalysisResult", &AnalysisTextFormatter{})
	registry.RegisterFormatter("markdown", "AnalysisResult", &AnalysisMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	// Try specific formatter first
	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.AnalysisResult, types.ParseResumeOutput:
		return "AnalysisResult"
	default:
		return "any"
	}
}

// asAnalysisResult unwraps the analysis from either result type.
// ParseResumeOutput renders as its embedded analysis; the file URL
// only matters on the HTTP path.
func asAnalysisResult(data any) (types.AnalysisResult, bool) {
	switch v := data.(type) {
	case types.AnalysisResult:
		return v, true
	case types.ParseResumeOutput:
		return v.AnalysisResult, true
	default:
		return types.AnalysisResult{}, false
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// AnalysisTextFormatter handles text formatting for analysis results
type AnalysisTextFormatter struct{}

func (atf *AnalysisTextFormatter) Format(data any) (string, error) {
	result, ok := asAnalysisResult(data)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== ATS COMPATIBILITY REPORT ===\n\n")
	output.WriteString(fmt.Sprintf("ATS Score: %d/100\n", result.ATSScore))
	output.WriteString(fmt.Sprintf("  Skill match:   %d/100\n", result.ScoreBreakdown.SkillScore))
	output.WriteString(fmt.Sprintf("  Section match: %d/100\n\n", result.ScoreBreakdown.SectionScore))

	output.WriteString("=== CANDIDATE ===\n")
	name := result.Name
	if name == "" {
		name = "(not detected)"
	}
	output.WriteString(fmt.Sprintf("Name:       %s\n", name))
	output.WriteString(fmt.Sprintf("Education:  %s\n", result.Education))
	output.WriteString(fmt.Sprintf("Experience: %s\n\n", result.Experience))

	output.WriteString("=== MATCHED SKILLS ===\n")
	if len(result.Skills) > 0 {
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
	} else {
		output.WriteString("No taxonomy keywords found.\n")
	}
	output.WriteString("\n")

	if len(result.MissingSections) > 0 {
		output.WriteString("=== MISSING SECTIONS ===\n")
		for _, section := range result.MissingSections {
			output.WriteString(fmt.Sprintf("- %s\n", section))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("=== SUGGESTIONS ===\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return output.String(), nil
}

func (atf *AnalysisTextFormatter) SupportedType() string {
	return "AnalysisResult"
}

// AnalysisMarkdownFormatter handles markdown formatting for analysis results
type AnalysisMarkdownFormatter struct{}

func (amf *AnalysisMarkdownFormatter) Format(data any) (string, error) {
	result, ok := asAnalysisResult(data)
	if !ok {
		return "", fmt.Errorf("expected AnalysisResult, got %T", data)
	}

	var output strings.Builder

	output.WriteString("# ATS Compatibility Report\n\n")
	output.WriteString(fmt.Sprintf("**ATS Score:** %d/100\n\n", result.ATSScore))
	output.WriteString(fmt.Sprintf("- Skill match: %d/100\n", result.ScoreBreakdown.SkillScore))
	output.WriteString(fmt.Sprintf("- Section match: %d/100\n\n", result.ScoreBreakdown.SectionScore))

	output.WriteString("## Candidate\n\n")
	name := result.Name
	if name == "" {
		name = "_not detected_"
	}
	output.WriteString(fmt.Sprintf("**Name:** %s\n\n", name))
	output.WriteString(fmt.Sprintf("**Education:** %s\n\n", result.Education))
	output.WriteString(fmt.Sprintf("**Experience:** %s\n\n", result.Experience))

	output.WriteString("## Matched Skills\n\n")
	if len(result.Skills) > 0 {
		for _, skill := range result.Skills {
			output.WriteString(fmt.Sprintf("- %s\n", skill))
		}
		output.WriteString("\n")
	} else {
		output.WriteString("No taxonomy keywords found.\n\n")
	}

	if len(result.MissingSections) > 0 {
		output.WriteString("## Missing Sections\n\n")
		for _, section := range result.MissingSections {
			output.WriteString(fmt.Sprintf("- %s\n", section))
		}
		output.WriteString("\n")
	}

	if len(result.Suggestions) > 0 {
		output.WriteString("## Suggestions\n\n")
		for i, suggestion := range result.Suggestions {
			output.WriteString(fmt.Sprintf("%d. %s\n", i+1, suggestion))
		}
	}

	return output.String(), nil
}

func (amf *AnalysisMarkdownFormatter) SupportedType() string {
	return "AnalysisResult"
}

// Global formatter registry
var GlobalRegistry = NewFormatterRegistry()
