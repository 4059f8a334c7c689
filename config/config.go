// Package config loads the Alias Table's startup contents from a
// dotfile, the concrete shape spec §6 leaves to an external
// collaborator ("Configuration file loading (alias table)").
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadAliases reads name=value lines from ~/.fshrc (or path, if
// non-empty). Blank lines and lines starting with '#' are ignored. A
// missing file is not an error — it yields an empty map.
func LoadAliases(path string) (map[string]string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".fshrc")
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	aliases := make(map[string]string)
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		name, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("%s:%d: expected name=value", path, lineNo)
		}
		aliases[strings.TrimSpace(name)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return aliases, nil
}
