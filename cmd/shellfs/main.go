package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/jmgilman/go/internal/cli"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "panic: %v\n%s\n", r, debug.Stack())
			os.Exit(cli.ExitPanic)
		}
	}()

	os.Exit(cli.Execute(os.Args[1:]))
}
