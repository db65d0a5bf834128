package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/rlch/psl"
)

var (
	errBlockNotFound = errors.New("block not found")
	errMissingArgs   = errors.New("missing arguments")
	errNoFields      = errors.New("no composite fields")
)

func blocksCommand() *cli.Command {
	return &cli.Command{
		Name:      "blocks",
		Usage:     "List the top-level blocks of a schema",
		ArgsUsage: "[file]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			lines, err := readLines(cmd, cmd.Args().First())
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			st := newStyles(out)

			for block := range psl.Blocks(lines) {
				_, _ = fmt.Fprintf(out, "%s %s %s\n",
					st.render(st.Keyword, fmt.Sprintf("%-10s", block.Type)),
					st.render(st.Name, fmt.Sprintf("%-24s", block.Name)),
					st.render(st.Dim, block.Range.String()))
			}

			return nil
		},
	}
}

func fieldsCommand() *cli.Command {
	return &cli.Command{
		Name:      "fields",
		Usage:     "List the fields of a block with their types",
		ArgsUsage: "<block> [file]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 1 {
				return fmt.Errorf("%w: block name", errMissingArgs)
			}

			lines, err := readLines(cmd, cmd.Args().Get(1))
			if err != nil {
				return err
			}

			block, err := findBlock(lines, cmd.Args().First())
			if err != nil {
				return err
			}

			idx := psl.FieldTypes(lines, block, nil)

			out := cmd.Root().Writer
			st := newStyles(out)

			for _, name := range psl.FieldNames(lines, block, nil) {
				_, _ = fmt.Fprintf(out, "%s %s\n",
					st.render(st.Name, fmt.Sprintf("%-24s", name)),
					st.render(st.Keyword, idx.Names[name]))
			}

			return nil
		},
	}
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "List the fields reached by a dotted path through composite types",
		ArgsUsage: "<block> <path> [file]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() < 2 {
				return fmt.Errorf("%w: block name and path", errMissingArgs)
			}

			lines, err := readLines(cmd, cmd.Args().Get(2))
			if err != nil {
				return err
			}

			block, err := findBlock(lines, cmd.Args().First())
			if err != nil {
				return err
			}

			path := strings.Split(cmd.Args().Get(1), ".")

			fields := psl.ResolveCompositeFields(lines, path, psl.FieldTypes(lines, block, nil))
			if len(fields) == 0 {
				return fmt.Errorf("%w at %s.%s", errNoFields, block.Name, cmd.Args().Get(1))
			}

			for _, field := range fields {
				_, _ = fmt.Fprintln(cmd.Root().Writer, field)
			}

			return nil
		},
	}
}

func factsCommand() *cli.Command {
	return &cli.Command{
		Name:      "facts",
		Usage:     "Summarize datasource, provider, preview features and declared names",
		ArgsUsage: "[file]",
		Action: func(_ context.Context, cmd *cli.Command) error {
			lines, err := readLines(cmd, cmd.Args().First())
			if err != nil {
				return err
			}

			out := cmd.Root().Writer
			st := newStyles(out)
			errOut := cmd.Root().ErrWriter
			errSt := newStyles(errOut)

			datasource, _ := psl.DatasourceName(lines)
			provider, _ := psl.DatasourceProvider(lines)
			preview := psl.PreviewFeatures(lines, func(msg string) {
				_, _ = fmt.Fprintf(errOut, "%s %s\n", errSt.render(errSt.Warn, "warning:"), msg)
			})

			facts := []struct {
				key   string
				value string
			}{
				{"datasource", datasource},
				{"provider", provider},
				{"preview", strings.Join(preview, ", ")},
				{"relations", strings.Join(psl.RelationNames(lines), ", ")},
				{"composites", strings.Join(psl.CompositeTypeNames(lines), ", ")},
			}

			for _, f := range facts {
				value := f.value
				if value == "" {
					value = st.render(st.Dim, "-")
				}

				_, _ = fmt.Fprintf(out, "%s %s\n", st.render(st.Keyword, fmt.Sprintf("%-11s", f.key)), value)
			}

			return nil
		},
	}
}

// readLines reads the schema at path, or standard input when path is empty or "-",
// and splits it into trimmed lines.
func readLines(cmd *cli.Command, path string) ([]string, error) {
	var (
		data []byte
		err  error
	)

	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.Root().Reader)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path) //#nosec G304 -- paths come from user args
		if err != nil {
			return nil, err
		}
	}

	return psl.Lines(string(data)), nil
}

// findBlock looks up a block by name: a unique model, type, enum or view first,
// then any datasource or generator of that name.
func findBlock(lines []string, name string) (psl.Block, error) {
	if block, ok := psl.BlockByName(name, lines); ok {
		return block, nil
	}

	for block := range psl.Blocks(lines) {
		if block.Name == name && !block.Type.Declarative() {
			return block, nil
		}
	}

	return psl.Block{}, fmt.Errorf("%w: %s", errBlockNotFound, name)
}
