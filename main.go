package main

import (
	"os"

	"github.com/ndelorme/commute-advisor/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
