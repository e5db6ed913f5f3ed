package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mbirchal/curlc/internal/compiler/lexer"
	"github.com/mbirchal/curlc/internal/compiler/parser"
	"github.com/mbirchal/curlc/internal/compiler/resolver"
	"github.com/mbirchal/curlc/internal/compiler/source"
)

// inspectCmd opens an interactive REPL: the user pastes or pipes in a
// source snippet and each pipeline stage's output is printed in turn.
// This never touches cmd/curlc's own output contract; it is a debugging
// aid over the existing stages.
func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Interactively walk the compiler pipeline over a snippet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspectREPL()
		},
	}
}

func runInspectREPL() error {
	rl, err := readline.New("curlc> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	header := color.New(color.FgCyan, color.Bold)
	fmt.Println("Enter a single line of source (one function). Ctrl-D to quit.")

	for {
		line, err := rl.Readline()
		if err == io.EOF || err == readline.ErrInterrupt {
			return nil
		}
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		inspectLine(header, line)
	}
}

func inspectLine(header *color.Color, line string) {
	file := &source.File{Path: "<inspect>", Lines: []string{line}}

	toks, err := lexer.Lex(file)
	if err != nil {
		fmt.Println(err)
		return
	}
	header.Println("tokens:")
	for _, t := range toks {
		fmt.Printf("  %-8s %q\n", t.Kind, t.Literal)
	}

	pfile, err := parser.Parse(file, toks)
	if err != nil {
		fmt.Println(err)
		return
	}
	header.Println("parse tree:")
	fmt.Printf("  %d function(s)\n", len(pfile.Funs))

	tf, err := resolver.Analyse(file, pfile)
	if err != nil {
		fmt.Println(err)
		return
	}
	header.Println("typed tree:")
	for _, fn := range tf.Funs {
		fmt.Printf("  fun %s -> %s\n", fn.Ident, tf.Types[fn.ReturnType].Name)
	}
}
