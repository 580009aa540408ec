package main

import (
	"os"

	"github.com/abhisek/studentperf/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
