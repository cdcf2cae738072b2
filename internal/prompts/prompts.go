// Package prompts builds the natural-language prompt text for each AI
// feature. The provider gateway treats these as opaque input.
package prompts

import "fmt"

// SuggestNavigation asks for a single listing/filter command for the
// user's intent in the given working directory.
func SuggestNavigation(cwd, intent string) string {
	return fmt.Sprintf("You are a shell assistant. Current working directory: %s\n"+
		"User intent: %s\n"+
		"Provide a single safe POSIX shell command (no explanations) to list files or filter results to satisfy the intent.",
		cwd, intent)
}

// SuggestFilename asks for one concise filename for a purpose.
func SuggestFilename(context, purpose string) string {
	return fmt.Sprintf("You are a naming assistant. Files/folders context: %s\n"+
		"Purpose: %s\n"+
		"Suggest one concise filename (no path), one word or hyphenated, lower-case.",
		context, purpose)
}

// SummarizeText asks for a short summary of the text.
func SummarizeText(text string, maxSentences int) string {
	return fmt.Sprintf("Summarize the text below in %d sentences. Be concise.\n\nText:\n%s", maxSentences, text)
}

// AnalyzeProcesses asks for anomalies in ps output.
func AnalyzeProcesses(psOutput string) string {
	return "Analyze the following `ps aux` output for anomalies or resource issues. " +
		"List up to 5 processes to investigate with a short reason each.\n\n" + psOutput
}

// ExplainPermissionError asks for the cause of and fix for a filesystem
// permission error.
func ExplainPermissionError(errorText string) string {
	return "A user encountered this filesystem permission error. Explain the cause and give exact shell commands " +
		"to fix it safely (one command per line). If unsafe, suggest a safe alternative.\n\nError:\n" + errorText
}

// PackageAdvice asks for install commands across package managers.
func PackageAdvice(packageName string) string {
	return fmt.Sprintf("Provide recommended package manager commands to install '%s' "+
		"on Debian/Ubuntu (apt), CentOS/RHEL (yum/dnf), and macOS (brew). Also list common dependency issues.",
		packageName)
}

// PredictScript asks for an estimate of a script's behavior before
// running it.
func PredictScript(scriptText string) string {
	return "Given this shell script or program, estimate likely runtime, resource usage, and potential side effects. " +
		"Be concise and mention dangerous operations (file deletion, network calls, systemctl, etc.).\n\n" + scriptText
}

// FindCommand asks for a find/grep command matching the intent.
func FindCommand(intent, root string) string {
	return fmt.Sprintf("Generate a safe find/grep command rooted at %s that matches this intent: %s. "+
		"Return a single shell command only.", root, intent)
}

// NetworkDiagnostic asks for troubleshooting advice over probe output.
func NetworkDiagnostic(diagText string) string {
	return "Diagnose network issue given the following diagnostic output (ping/curl/ss/iptables). " +
		"Provide next troubleshooting commands to try and likely causes.\n\n" + diagText
}

// EnvSuggestion asks for environment variables needed by an application.
func EnvSuggestion(appContext string) string {
	return fmt.Sprintf("Given this application/context: %s, suggest environment variables and export commands "+
		"needed to run it locally. Provide commands only, one per line.", appContext)
}

// GitCommitMessage asks for a conventional commit message for a diff.
func GitCommitMessage(diffText string) string {
	return "Generate a concise, conventional commit message (subject + 1-line body) for this diff. Use present tense.\n\n" + diffText
}

// SystemAdvice asks for recommendations over a system report.
func SystemAdvice(sysText string) string {
	return "Analyze system status and give recommendations (short) based on the following:\n\n" + sysText
}

// CompressionAdvice asks for the best compression approach for a file
// list.
func CompressionAdvice(fileListText string) string {
	return "For these files and types, recommend compression format(s) and commands to maximize space savings while " +
		"balancing decompression speed. Files:\n\n" + fileListText
}

// CronFromNL asks for a crontab line matching a schedule description.
func CronFromNL(nl string) string {
	return fmt.Sprintf("Convert this natural language schedule into a valid crontab entry: %s. Return only the crontab line.", nl)
}

// DryRunCheck asks whether a command is safe to run.
func DryRunCheck(command string) string {
	return "Analyze if the following shell command is safe to run and list its exact effects. " +
		"If it may be destructive, propose a safe dry-run alternative.\n\n" + command
}

// NLToShell asks for a shell translation of an instruction.
func NLToShell(nl string) string {
	return "Translate this instruction into a single, safe POSIX shell command. If multiple are needed, " +
		"explain in comments and provide the commands. Prefer non-destructive options. Instruction:\n\n" + nl
}
