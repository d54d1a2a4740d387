// Package main is the entry point for the cookie-profiles application.
package main

import (
	"io"
	"os"

	"github.com/dtg01100/cookie-profiles/internal/cli"
)

var version = "dev"

// Runner runs the command line with args.
type Runner func(args []string, stdout, stderr io.Writer) error

type AppDeps struct {
	Stdout io.Writer
	Stderr io.Writer
	Run    Runner
}

func DefaultAppDeps(stdout, stderr io.Writer) *AppDeps {
	return &AppDeps{
		Stdout: stdout,
		Stderr: stderr,
		Run:    cli.Run,
	}
}

func runMainWithDeps(args []string, deps *AppDeps) int {
	cli.SetVersion(version)

	if err := deps.Run(args, deps.Stdout, deps.Stderr); err != nil {
		return 1
	}
	return 0
}

func runMain(args []string, stdout, stderr io.Writer) int {
	return runMainWithDeps(args, DefaultAppDeps(stdout, stderr))
}

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}
