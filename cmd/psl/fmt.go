package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/urfave/cli/v3"

	"github.com/rlch/psl"
	"github.com/rlch/psl/engine"
)

var (
	errNoSchemaFiles = errors.New("no .prisma files found")
	errNoEngine      = errors.New("no schema engine configured: set engine.command in .psl.yaml")
	errUnformatted   = errors.New("files are not formatted")
)

const (
	schemaExt       = ".prisma"
	filePermissions = 0o600
)

func fmtCommand() *cli.Command {
	return &cli.Command{
		Name:      "fmt",
		Aliases:   []string{"format"},
		Usage:     "Format schema files with the configured schema engine",
		ArgsUsage: "[files...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "write",
				Aliases: []string{"w"},
				Usage:   "write result to file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "check",
				Usage: "check if files are formatted (exit 1 if not)",
			},
			&cli.BoolFlag{
				Name:    "diff",
				Aliases: []string{"d"},
				Usage:   "display diffs instead of rewriting files",
			},
		},
		Action: runFmt,
	}
}

func runFmt(ctx context.Context, cmd *cli.Command) error {
	args := cmd.Args().Slice()

	dir := "."
	if len(args) > 0 {
		dir = filepath.Dir(args[0])
	}

	eng, err := loadEngine(cmd.String("config"), dir)
	if err != nil {
		return err
	}

	opts := fmtOptions{
		write: cmd.Bool("write"),
		check: cmd.Bool("check"),
		diff:  cmd.Bool("diff"),
	}

	return formatPaths(ctx, eng, args, opts, cmd.Root().Reader, cmd.Root().Writer, cmd.Root().ErrWriter)
}

type fmtOptions struct {
	write bool
	check bool
	diff  bool
}

// loadEngine builds the engine from the config at path, or from the nearest
// config above dir.
func loadEngine(path, dir string) (engine.Engine, error) { //nolint:ireturn
	var (
		cfg *psl.Config
		err error
	)

	if path != "" {
		cfg, err = psl.LoadConfigFile(path)
	} else {
		cfg, err = psl.LoadConfig(dir)
	}

	switch {
	case errors.Is(err, psl.ErrConfigNotFound):
		return nil, errNoEngine
	case err != nil:
		return nil, fmt.Errorf("loading config: %w", err)
	case cfg.Engine.Command == "":
		return nil, errNoEngine
	}

	return engine.New(cfg), nil
}

func formatPaths(ctx context.Context, eng engine.Engine, args []string, opts fmtOptions, in io.Reader, out, errOut io.Writer) error {
	if len(args) == 0 {
		// Read from stdin
		return formatStdin(ctx, eng, in, out)
	}

	// Collect all files to format
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return errNoSchemaFiles
	}

	var unformatted []string

	for _, file := range files {
		changed, err := formatFile(ctx, eng, file, opts, out)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}

		if changed {
			unformatted = append(unformatted, file)
		}
	}

	if opts.check && len(unformatted) > 0 {
		_, _ = fmt.Fprintf(errOut, "The following files are not formatted:\n")

		for _, f := range unformatted {
			_, _ = fmt.Fprintf(errOut, "  %s\n", f)
		}

		return errUnformatted
	}

	return nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}

		if info.IsDir() {
			// Walk directory for .prisma files
			err := filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}

				if d.IsDir() && d.Name() == "node_modules" {
					return filepath.SkipDir
				}

				if !d.IsDir() && strings.HasSuffix(path, schemaExt) {
					files = append(files, path)
				}

				return nil
			})
			if err != nil {
				return nil, err
			}
		} else {
			files = append(files, arg)
		}
	}

	return files, nil
}

func formatStdin(ctx context.Context, eng engine.Engine, in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	formatted, err := eng.Format(ctx, string(data))
	if err != nil {
		return fmt.Errorf("formatting: %w", err)
	}

	_, err = io.WriteString(out, formatted)

	return err
}

func formatFile(ctx context.Context, eng engine.Engine, path string, opts fmtOptions, out io.Writer) (bool, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- paths come from user args
	if err != nil {
		return false, err
	}

	formatted, err := eng.Format(ctx, string(data))
	if err != nil {
		return false, err
	}

	changed := string(data) != formatted

	if !changed {
		return false, nil
	}

	if opts.write {
		writeErr := os.WriteFile(path, []byte(formatted), filePermissions)
		if writeErr != nil {
			return true, writeErr
		}

		_, _ = fmt.Fprintf(out, "%s\n", path)

		return true, nil
	}

	if opts.diff {
		return true, printDiff(out, path, string(data), formatted)
	}

	if opts.check {
		return true, nil
	}

	// Default: print formatted output
	_, err = io.WriteString(out, formatted)

	return true, err
}

// printDiff writes a unified diff between the original and formatted text,
// colored when out is a terminal.
func printDiff(out io.Writer, path, original, formatted string) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(formatted),
		FromFile: path,
		ToFile:   path + " (formatted)",
		Context:  3,
	})
	if err != nil {
		return err
	}

	st := newStyles(out)

	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			line = st.render(st.Dim, strings.TrimSuffix(line, "\n")) + "\n"
		case strings.HasPrefix(line, "+"):
			line = st.render(st.Added, strings.TrimSuffix(line, "\n")) + "\n"
		case strings.HasPrefix(line, "-"):
			line = st.render(st.Removed, strings.TrimSuffix(line, "\n")) + "\n"
		}

		_, _ = io.WriteString(out, line)
	}

	return nil
}
