// Package main provides the psl CLI tool.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

var version = "dev"

func main() {
	err := newApp().Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "psl",
		Version: version,
		Usage:   "Inspect and format Prisma schema files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file to use instead of the nearest .psl.yaml",
			},
		},
		Commands: []*cli.Command{
			blocksCommand(),
			fieldsCommand(),
			resolveCommand(),
			factsCommand(),
			fmtCommand(),
		},
	}
}
