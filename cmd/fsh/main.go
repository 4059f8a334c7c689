// Command fsh is the microshell REPL binary.
package main

import (
	"log"
	"os"

	"golang.org/x/term"

	"microshell"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("fsh: ")

	if len(os.Args) > 1 && os.Args[1] == microshell.ReexecSentinel() {
		os.Exit(microshell.RunReexecBuiltin(os.Args[2:]))
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	sh, err := microshell.New(int(os.Stdin.Fd()), interactive)
	if err != nil {
		log.Fatalf("starting shell: %v", err)
	}
	defer sh.Close()

	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = microshell.DefaultHistoryFile(home)
	}

	driver, err := microshell.NewDriver(sh, historyFile)
	if err != nil {
		log.Fatalf("starting line editor: %v", err)
	}
	defer driver.Close()

	driver.Run()
}
