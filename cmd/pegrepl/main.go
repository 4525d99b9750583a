// Copyright © 2024 The jvs/peg Authors.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/jvs/peg"
	"github.com/jvs/peg/compile"
)

func initDisplay() {
	pterm.EnableDebugMessages()
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func traceLevel(l string) tracing.TraceLevel {
	return tracing.TraceLevelFromString(l)
}

// main starts an interactive CLI for trying out a grammar: pegrepl loads
// and compiles a grammar file once, then reads lines from the terminal
// and parses each one against the rule named by -rule (`start` by
// default), printing either
// the resulting tree or the farthest parse error.
func main() {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	tlevel := flag.String("trace", "Info", "Trace level [Debug|Info|Error]")
	grammarFile := flag.String("grammar", "", "Path to a grammar source file (required)")
	rule := flag.String("rule", "start", "Top-level rule to parse input against")
	flag.Parse()
	tracer().SetTraceLevel(traceLevel(*tlevel))

	if *grammarFile == "" {
		pterm.Error.Println("a -grammar file is required")
		os.Exit(2)
	}
	source, err := os.ReadFile(*grammarFile)
	if err != nil {
		pterm.Error.Printfln("reading %s: %v", *grammarFile, err)
		os.Exit(2)
	}
	grammar, err := peg.CompileGrammar(string(source))
	if err != nil {
		pterm.Error.Printfln("compiling %s: %v", *grammarFile, err)
		os.Exit(1)
	}
	pterm.Info.Println("Welcome to pegrepl")
	tracer().Infof("Compiled %s, rules: %v", *grammarFile, grammar.Names())

	repl, err := readline.New("pegrepl> ")
	if err != nil {
		tracer().Errorf(err.Error())
		os.Exit(3)
	}
	defer repl.Close()

	tracer().Infof("Quit with <ctrl>D")
	for {
		line, err := repl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			break
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		evalLine(grammar, *rule, line)
	}
	fmt.Println("Good bye!")
}

func evalLine(grammar *peg.Grammar, rule, line string) {
	result, err := grammar.ParseRule(context.Background(), rule, line)
	if err != nil {
		switch e := err.(type) {
		case *peg.ParseError:
			pterm.Error.Printfln("%s (at rune %d)", e.Message, grammar.RunePosition(line, e.Pos))
		case *compile.GrammarError:
			pterm.Error.Printfln("grammar error: %s", e.Error())
		default:
			pterm.Error.Println(err.Error())
		}
		return
	}
	pterm.Success.Printfln("%v", result)
}
