package microshell

import (
	"os"
	"strings"
	"time"
)

var defaultPrompt = "\033[1;36m%u@%h\033[0m:\033[1;34m%w\033[0m$ "

// Prompt renders the line editor's prompt string. Prompt rendering
// itself is named in spec §1 as an external collaborator ("out of
// the core"); this gives that collaborator a concrete, swappable
// home instead of a bare literal, overridable via GOSH_PROMPT.
func Prompt() string {
	tmpl := os.Getenv("GOSH_PROMPT")
	if tmpl == "" {
		tmpl = defaultPrompt
	}
	return expandPrompt(tmpl)
}

func expandPrompt(tmpl string) string {
	username := os.Getenv("USER")
	hostname, _ := os.Hostname()
	cwd, _ := os.Getwd()

	replacements := map[string]string{
		"%u": username,
		"%h": hostname,
		"%w": cwd,
		"%W": shortenPath(cwd),
		"%d": time.Now().Format("2006-01-02"),
		"%t": time.Now().Format("15:04:05"),
		"%$": "$",
	}
	for key, value := range replacements {
		tmpl = strings.ReplaceAll(tmpl, key, value)
	}
	return tmpl
}

func shortenPath(path string) string {
	home := os.Getenv("HOME")
	if home != "" && strings.HasPrefix(path, home) {
		return "~" + path[len(home):]
	}
	return path
}
