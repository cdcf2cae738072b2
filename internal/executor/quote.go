package executor

import (
	"regexp"
	"strings"
)

var unsafeShellChars = regexp.MustCompile(`[^\w@%+=:,./-]`)

// Quote returns s wrapped for safe interpolation into a POSIX shell
// command line.
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if !unsafeShellChars.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
