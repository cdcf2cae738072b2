package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestNavigation(t *testing.T) {
	p := SuggestNavigation("/var/log", "largest files")
	assert.Contains(t, p, "Current working directory: /var/log")
	assert.Contains(t, p, "User intent: largest files")
	assert.Contains(t, p, "single safe POSIX shell command")
}

func TestSuggestFilename(t *testing.T) {
	p := SuggestFilename("scripts and configs", "nightly backup script")
	assert.Contains(t, p, "scripts and configs")
	assert.Contains(t, p, "nightly backup script")
	assert.Contains(t, p, "one concise filename")
}

func TestSummarizeText(t *testing.T) {
	p := SummarizeText("long body", 3)
	assert.Contains(t, p, "in 3 sentences")
	assert.Contains(t, p, "long body")
}

func TestFindCommand(t *testing.T) {
	p := FindCommand("go files with TODO", "/src")
	assert.Contains(t, p, "rooted at /src")
	assert.Contains(t, p, "go files with TODO")
	assert.Contains(t, p, "single shell command only")
}

func TestCronFromNL(t *testing.T) {
	p := CronFromNL("every Monday at 6am")
	assert.Contains(t, p, "every Monday at 6am")
	assert.Contains(t, p, "Return only the crontab line")
}

func TestInputCarriedVerbatim(t *testing.T) {
	tests := []struct {
		name  string
		build func(string) string
	}{
		{"AnalyzeProcesses", AnalyzeProcesses},
		{"ExplainPermissionError", ExplainPermissionError},
		{"PackageAdvice", PackageAdvice},
		{"PredictScript", PredictScript},
		{"NetworkDiagnostic", NetworkDiagnostic},
		{"EnvSuggestion", EnvSuggestion},
		{"GitCommitMessage", GitCommitMessage},
		{"SystemAdvice", SystemAdvice},
		{"CompressionAdvice", CompressionAdvice},
		{"DryRunCheck", DryRunCheck},
		{"NLToShell", NLToShell},
	}
	const marker = "XMARKERX with 'quotes' and $vars"
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Contains(t, tt.build(marker), marker)
		})
	}
}
