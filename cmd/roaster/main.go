package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alexanderramin/roaster/internal/cli"
)

func main() {
	if err := run(); err != nil {
		var exit *cli.ExitError
		if errors.As(err, &exit) {
			os.Exit(exit.Code)
		}
		os.Exit(cli.ExitFailure)
	}
}

func run() error {
	root := cli.NewRootCmd(cli.NewApp())
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
