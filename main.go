package main

import (
	"os"

	"github.com/mohdridwan/etasmik/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
