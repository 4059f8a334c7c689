// Package alias implements the shell's Alias Table and the one-level
// alias resolver described in spec §3/§4.3.
package alias

import (
	"fmt"
	"sort"
	"sync"

	"microshell/lexer"
	"microshell/parser"
)

// Table maps a command name to a raw replacement string. It is safe
// for concurrent use, though in practice it is populated once at
// startup and read by a single-threaded REPL thereafter; the mutex
// only matters once the alias/unalias builtins let it mutate live.
type Table struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewTable returns an empty Alias Table.
func NewTable() *Table {
	return &Table{entries: make(map[string]string)}
}

// Set installs or replaces an alias.
func (t *Table) Set(name, value string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[name] = value
}

// Get returns the replacement text for name, if any.
func (t *Table) Get(name string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.entries[name]
	return v, ok
}

// Remove deletes an alias. A no-op if name is not aliased.
func (t *Table) Remove(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, name)
}

// List returns every alias as "name='value'", sorted by name.
func (t *Table) List() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = fmt.Sprintf("%s='%s'", name, t.entries[name])
	}
	return out
}

// Expand rewrites each Command in p whose first argument matches an
// alias, replacing that argument with the tokenized alias value
// followed by the command's remaining original arguments. Expansion
// is one level only: the alias value is never itself checked against
// the table, so "alias ls='ls -la'" cannot recurse.
func (t *Table) Expand(p *parser.Pipeline) error {
	for _, cmd := range p.Commands {
		if len(cmd.Args) == 0 {
			continue
		}
		value, ok := t.Get(cmd.Args[0])
		if !ok {
			continue
		}
		toks, err := lexer.Lex(value)
		if err != nil {
			return fmt.Errorf("alias %q: %w", cmd.Args[0], err)
		}
		expanded := make([]string, 0, len(toks)+len(cmd.Args)-1)
		for _, tok := range toks {
			expanded = append(expanded, tok.Text)
		}
		expanded = append(expanded, cmd.Args[1:]...)
		cmd.Args = expanded
	}
	return nil
}
