package main

import (
	"os"

	"github.com/vuhoang/mlhub/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
