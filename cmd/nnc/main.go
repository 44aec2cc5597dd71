package main

import (
	"os"

	"github.com/nano-lang/nnc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
