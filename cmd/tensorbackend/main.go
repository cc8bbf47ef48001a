package main

import (
	"github.com/replicate/tensorbackend/pkg/cli"
	"github.com/replicate/tensorbackend/pkg/util/console"
)

func main() {
	cmd, err := cli.NewRootCommand()
	if err != nil {
		console.Fatalf("%s", err)
	}

	if err = cmd.Execute(); err != nil {
		console.Fatalf("%s", err)
	}
}
