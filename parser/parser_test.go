package parser

import (
	"testing"
)

func TestParseSimple(t *testing.T) {
	p, err := Parse("echo hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Commands) != 1 || len(p.Commands[0].Args) != 2 {
		t.Fatalf("got %+v", p)
	}
	if p.Background {
		t.Fatal("expected foreground")
	}
}

func TestParsePipeline(t *testing.T) {
	p, err := Parse("grep -i foo < in.txt | sort -u >> out.txt &")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Commands) != 2 {
		t.Fatalf("expected 2 commands, got %d", len(p.Commands))
	}
	if !p.Background {
		t.Fatal("expected background")
	}
	first := p.Commands[0]
	if first.InFile != "in.txt" {
		t.Errorf("InFile = %q", first.InFile)
	}
	second := p.Commands[1]
	if second.OutFile != "out.txt" || !second.Append {
		t.Errorf("second command redirection = %+v", second)
	}
}

func TestParseEmptyCommandBetweenPipes(t *testing.T) {
	if _, err := Parse("echo a | | echo b"); err == nil {
		t.Fatal("expected error for empty command between pipes")
	}
}

func TestParseRedirWithoutTarget(t *testing.T) {
	for _, line := range []string{"cat <", "cat >", "cat >>"} {
		if _, err := Parse(line); err == nil {
			t.Fatalf("expected error for %q", line)
		}
	}
}

func TestParseBackgroundNotFinal(t *testing.T) {
	if _, err := Parse("echo a & echo b"); err == nil {
		t.Fatal("expected error for '&' not in final position")
	}
}

func TestParseMissingWordBeforeOperator(t *testing.T) {
	if _, err := Parse("| echo a"); err == nil {
		t.Fatal("expected error for missing word before first operator")
	}
}

func TestParseEmptyInput(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestParseLastRedirectWins(t *testing.T) {
	p, err := Parse("cmd > a.txt >> b.txt")
	if err != nil {
		t.Fatal(err)
	}
	c := p.Commands[0]
	if c.OutFile != "b.txt" || !c.Append {
		t.Errorf("got %+v, want b.txt append=true", c)
	}
}

func TestParseAmpersandAloneIsError(t *testing.T) {
	if _, err := Parse("&"); err == nil {
		t.Fatal("expected error for bare '&'")
	}
}

func TestRoundTrip(t *testing.T) {
	cases := []string{
		"echo hello world",
		"grep foo < in.txt | sort -u >> out.txt &",
		"cat a.txt",
	}
	for _, line := range cases {
		p1, err := Parse(line)
		if err != nil {
			t.Fatalf("Parse(%q): %v", line, err)
		}
		canon := p1.String()
		p2, err := Parse(canon)
		if err != nil {
			t.Fatalf("Parse(canonical %q of %q): %v", canon, line, err)
		}
		if p1.String() != p2.String() {
			t.Errorf("round trip mismatch: %q -> %q -> %q", line, p1.String(), p2.String())
		}
	}
}

func TestRoundTripQuotedWords(t *testing.T) {
	p1, err := Parse(`echo 'a b' "c d"`)
	if err != nil {
		t.Fatal(err)
	}
	canon := p1.String()
	p2, err := Parse(canon)
	if err != nil {
		t.Fatalf("Parse(%q): %v", canon, err)
	}
	if p1.String() != p2.String() {
		t.Errorf("round trip mismatch: %q vs %q", p1.String(), p2.String())
	}
}
