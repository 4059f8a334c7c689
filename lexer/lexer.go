// Package lexer splits a shell input line into tokens, honoring single
// and double quoting and a small set of operator characters.
package lexer

import (
	"fmt"
	"os"
	"strings"
)

// Kind tags a Token with its syntactic role.
type Kind int

const (
	Word Kind = iota
	Pipe
	RedirIn
	RedirOut
	RedirAppend
	Background
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "WORD"
	case Pipe:
		return "PIPE"
	case RedirIn:
		return "REDIR_IN"
	case RedirOut:
		return "REDIR_OUT"
	case RedirAppend:
		return "REDIR_APPEND"
	case Background:
		return "BG"
	default:
		return "UNKNOWN"
	}
}

// Token is a single lexical unit. Text never carries surrounding
// quotes; those are resolved during lexing.
type Token struct {
	Kind Kind
	Text string
}

const operatorChars = "|<>&"

// Lex splits line into tokens. An unterminated quote is the only lex
// error; unbalanced operators are left for the parser to reject.
func Lex(line string) ([]Token, error) {
	var toks []Token
	var cur strings.Builder
	haveWord := false
	// quotedStart tracks whether the first character of the word
	// currently being built came from inside a quote pair; ~-expansion
	// only applies when it did not.
	quotedStart := false

	flush := func() {
		if haveWord {
			text := cur.String()
			if !quotedStart {
				text = expandTilde(text)
			}
			toks = append(toks, Token{Kind: Word, Text: text})
			cur.Reset()
			haveWord = false
			quotedStart = false
		}
	}

	runes := []rune(line)
	i := 0
	for i < len(runes) {
		c := runes[i]
		switch {
		case c == '\'':
			if cur.Len() == 0 {
				quotedStart = true
			}
			if err := consumeQuoted(runes, &i, '\'', &cur); err != nil {
				return nil, err
			}
			haveWord = true
			continue
		case c == '"':
			if cur.Len() == 0 {
				quotedStart = true
			}
			if err := consumeQuoted(runes, &i, '"', &cur); err != nil {
				return nil, err
			}
			haveWord = true
			continue
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
			i++
			continue
		case strings.ContainsRune(operatorChars, c):
			flush()
			op, n := lexOperator(runes[i:])
			toks = append(toks, op)
			i += n
			continue
		default:
			if cur.Len() == 0 {
				quotedStart = false
			}
			cur.WriteRune(c)
			haveWord = true
			i++
		}
	}
	flush()
	return toks, nil
}

// consumeQuoted copies the bytes between a pair of quote characters
// (exclusive) into cur, advancing *i past the closing quote. Neither
// quote style interpolates; they differ only in which character closes
// them, per spec.
func consumeQuoted(runes []rune, i *int, quote rune, cur *strings.Builder) error {
	start := *i
	*i++ // skip opening quote
	for *i < len(runes) {
		if runes[*i] == quote {
			*i++
			return nil
		}
		cur.WriteRune(runes[*i])
		*i++
	}
	return fmt.Errorf("lex: unterminated %c quote starting at position %d", quote, start)
}

// lexOperator consumes one operator token starting at runes[0],
// recognizing ">>" as a single token when both '>' are adjacent.
func lexOperator(runes []rune) (Token, int) {
	switch runes[0] {
	case '|':
		return Token{Kind: Pipe, Text: "|"}, 1
	case '<':
		return Token{Kind: RedirIn, Text: "<"}, 1
	case '&':
		return Token{Kind: Background, Text: "&"}, 1
	case '>':
		if len(runes) > 1 && runes[1] == '>' {
			return Token{Kind: RedirAppend, Text: ">>"}, 2
		}
		return Token{Kind: RedirOut, Text: ">"}, 1
	}
	panic("lexOperator: not an operator")
}

// expandTilde replaces a leading "~" with $HOME, but only when it is
// the whole word or immediately followed by "/". Lex only calls this
// when the word's first character lay outside any quote.
func expandTilde(word string) string {
	if word == "" || word[0] != '~' {
		return word
	}
	if len(word) == 1 || word[1] == '/' {
		home := os.Getenv("HOME")
		return home + word[1:]
	}
	return word
}
