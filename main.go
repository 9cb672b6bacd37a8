package main

import (
	"os"

	"github.com/kzaag/gdp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
