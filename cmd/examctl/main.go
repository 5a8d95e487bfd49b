// Package main implements examctl, a command-line tool for exam definitions.
// It renders definition files, issues candidate tokens for the examd API and
// runs a walkthrough of the exam model.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
