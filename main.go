package main

import (
	"os"

	"github.com/koulakhilesh/OpenEnergy/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
