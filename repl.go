package microshell

import (
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
)

// Driver is the REPL driver of spec §4.7: read a line from the
// external editor, trim, dispatch to the Shell, loop. The line
// editor itself — prompting, history recall, Ctrl-C/Ctrl-D handling —
// is the external collaborator named in spec §6; readline.Instance
// supplies it.
type Driver struct {
	sh *Shell
	rl *readline.Instance
}

// NewDriver builds a REPL driver around sh. historyFile backs
// readline's own line-recall (separate from the sqlite history.Store
// used by the `history` builtin); an empty string disables it.
func NewDriver(sh *Shell, historyFile string) (*Driver, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          Prompt(),
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}
	return &Driver{sh: sh, rl: rl}, nil
}

// Run drives the read-parse-dispatch loop until EOF or the `exit`
// builtin terminates the process. It returns on EOF (spec §7's
// "Exit code": the shell itself exits 0 on `exit` or EOF) and on any
// other line-editor read error, which it logs first.
func (d *Driver) Run() {
	for {
		d.rl.SetPrompt(Prompt())
		line, err := d.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return
		}
		if err != nil {
			log.Printf("fsh: reading line: %v", err)
			return
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		d.sh.Dispatch(trimmed)
	}
}

func (d *Driver) Close() error {
	return d.rl.Close()
}

// DefaultHistoryFile returns readline's own recall file, distinct
// from the sqlite-backed history.Store.
func DefaultHistoryFile(home string) string {
	return filepath.Join(home, ".fsh_readline_history")
}
