// Command curlc compiles one source file into an ELF64 relocatable
// object at "<input>.o". It takes a single positional argument and no
// flags.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mbirchal/curlc/internal/buildlog"
	"github.com/mbirchal/curlc/internal/compiler/diag"
	"github.com/mbirchal/curlc/internal/compiler/generator"
	"github.com/mbirchal/curlc/internal/compiler/lexer"
	"github.com/mbirchal/curlc/internal/compiler/parser"
	"github.com/mbirchal/curlc/internal/compiler/resolver"
	"github.com/mbirchal/curlc/internal/compiler/source"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: curlc <source-file>\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	start := time.Now()
	inputPath := flag.Arg(0)
	outputPath := inputPath + ".o"

	funcCount, symbols, err := compile(inputPath, outputPath)
	if err != nil {
		diag.Fatal(err)
	}

	if db, logErr := buildlog.Log(""); logErr == nil {
		if err := buildlog.Record(db, inputPath, outputPath, funcCount, symbols, time.Since(start)); err != nil {
			fmt.Fprintf(os.Stderr, "curlc: warning: could not record build log: %v\n", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "curlc: warning: build log unavailable: %v\n", logErr)
	}
}

// compile threads the pipeline: source → lexer → parser → analyser →
// generator → ELF writer. It returns the symbol names of every
// function compiled, used only for the build ledger.
func compile(inputPath, outputPath string) (int, []string, error) {
	file, err := source.Load(inputPath)
	if err != nil {
		return 0, nil, err
	}

	toks, err := lexer.Lex(file)
	if err != nil {
		return 0, nil, err
	}

	pfile, err := parser.Parse(file, toks)
	if err != nil {
		return 0, nil, err
	}

	tf, err := resolver.Analyse(file, pfile)
	if err != nil {
		return 0, nil, err
	}

	obj := generator.Generate(tf)
	if err := obj.Finish(outputPath); err != nil {
		return 0, nil, err
	}

	symbols := make([]string, len(tf.Funs))
	for i, fn := range tf.Funs {
		symbols[i] = fn.Ident
	}
	return len(tf.Funs), symbols, nil
}
