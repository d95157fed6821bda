package main

import (
	"os"

	"code.cloudfoundry.org/roled/cmd"
	flags "github.com/jessevdk/go-flags"
)

func main() {
	serve := &cmd.ServeCommand{}

	parser := flags.NewParser(serve, flags.Default)
	parser.NamespaceDelimiter = "-"

	if _, err := parser.Parse(); err != nil {
		os.Exit(1)
	}

	if err := serve.Execute(nil); err != nil {
		os.Exit(1)
	}
}
