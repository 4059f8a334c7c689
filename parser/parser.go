// Package parser consumes a lexer.Token stream and produces a
// Pipeline: an ordered sequence of Commands plus a background flag.
package parser

import (
	"fmt"
	"strings"

	"microshell/lexer"
)

// Command is one stage of a pipeline: a non-empty argument list plus
// optional I/O redirections. If Append is meaningless (OutFile == "")
// its value is undefined and must not be consulted.
type Command struct {
	Args    []string
	InFile  string
	OutFile string
	Append  bool
}

// Pipeline is a non-empty ordered sequence of Commands plus a
// background flag. Every Command in it has a non-empty Args.
type Pipeline struct {
	Commands   []*Command
	Background bool
}

// Error is a parse failure. It is always non-fatal: the caller reports
// it and continues the REPL loop.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func parseErrorf(format string, args ...any) error {
	return &Error{Msg: fmt.Sprintf(format, args...)}
}

// Parse lexes and parses one input line into a Pipeline.
//
// Grammar:
//
//	pipeline := command ('|' command)* ('&')?
//	command  := (WORD | redir)+
//	redir    := '<' WORD | '>' WORD | '>>' WORD
func Parse(line string) (*Pipeline, error) {
	toks, err := lexer.Lex(line)
	if err != nil {
		return nil, parseErrorf("%s", err)
	}
	return ParseTokens(toks)
}

// ParseTokens parses an already-lexed token stream. Exposed so callers
// that already hold a token sequence can skip straight to parsing it.
func ParseTokens(toks []lexer.Token) (*Pipeline, error) {
	if len(toks) == 0 {
		return nil, parseErrorf("empty input")
	}

	background := false
	if toks[len(toks)-1].Kind == lexer.Background {
		background = true
		toks = toks[:len(toks)-1]
	}
	for _, t := range toks {
		if t.Kind == lexer.Background {
			return nil, parseErrorf("'&' is only valid as the final token")
		}
	}
	if len(toks) == 0 {
		return nil, parseErrorf("missing command before '&'")
	}

	var commands []*Command
	cur := &Command{}
	i := 0
	for i < len(toks) {
		t := toks[i]
		switch t.Kind {
		case lexer.Word:
			cur.Args = append(cur.Args, t.Text)
			i++
		case lexer.Pipe:
			if len(cur.Args) == 0 {
				return nil, parseErrorf("empty command before '|'")
			}
			commands = append(commands, cur)
			cur = &Command{}
			i++
		case lexer.RedirIn:
			if len(cur.Args) == 0 {
				return nil, parseErrorf("missing command before '<'")
			}
			word, n, err := redirTarget(toks, i, "<")
			if err != nil {
				return nil, err
			}
			cur.InFile = word
			i += n
		case lexer.RedirOut:
			if len(cur.Args) == 0 {
				return nil, parseErrorf("missing command before '>'")
			}
			word, n, err := redirTarget(toks, i, ">")
			if err != nil {
				return nil, err
			}
			cur.OutFile = word
			cur.Append = false
			i += n
		case lexer.RedirAppend:
			if len(cur.Args) == 0 {
				return nil, parseErrorf("missing command before '>>'")
			}
			word, n, err := redirTarget(toks, i, ">>")
			if err != nil {
				return nil, err
			}
			cur.OutFile = word
			cur.Append = true
			i += n
		default:
			return nil, parseErrorf("unexpected token %q", t.Text)
		}
	}
	if len(cur.Args) == 0 {
		return nil, parseErrorf("empty command")
	}
	commands = append(commands, cur)

	return &Pipeline{Commands: commands, Background: background}, nil
}

// String renders the Pipeline in canonical form: re-parsing it
// reproduces an equal Pipeline (see the round-trip property in the
// spec's testable properties).
func (p *Pipeline) String() string {
	var b strings.Builder
	for i, c := range p.Commands {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(c.String())
	}
	if p.Background {
		b.WriteString(" &")
	}
	return b.String()
}

func (c *Command) String() string {
	var b strings.Builder
	for i, a := range c.Args {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(quoteWord(a))
	}
	if c.InFile != "" {
		fmt.Fprintf(&b, " < %s", quoteWord(c.InFile))
	}
	if c.OutFile != "" {
		op := ">"
		if c.Append {
			op = ">>"
		}
		fmt.Fprintf(&b, " %s %s", op, quoteWord(c.OutFile))
	}
	return b.String()
}

// quoteWord wraps a word in quotes if it would otherwise be split or
// misread by the lexer. The lexer has no escape mechanism, so a word
// containing both quote characters cannot be represented losslessly;
// such words are not expected to round-trip.
func quoteWord(w string) string {
	if w != "" && w[0] != '~' && !strings.ContainsAny(w, " \t\n\r|<>&'\"") {
		return w
	}
	if !strings.Contains(w, "'") {
		return "'" + w + "'"
	}
	if !strings.Contains(w, `"`) {
		return `"` + w + `"`
	}
	return "'" + w + "'"
}

// redirTarget validates that the redirection operator at toks[i] is
// followed by exactly one WORD, returning that word and the number of
// tokens consumed (2: the operator and its target).
func redirTarget(toks []lexer.Token, i int, op string) (string, int, error) {
	if i+1 >= len(toks) || toks[i+1].Kind != lexer.Word {
		return "", 0, parseErrorf("'%s' must be followed by a filename", op)
	}
	return toks[i+1].Text, 2, nil
}
