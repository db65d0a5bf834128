package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rlch/psl"
)

// Command runs an external executable as the engine. The schema is written to
// the process's stdin and the subcommand ("lint" or "format") is appended to Args.
//
// lint must print a JSON array of {"start", "end", "text", "is_warning"} records;
// format must print the formatted schema.
type Command struct {
	Path    string
	Args    []string
	Env     []string
	Timeout time.Duration
}

type lintRecord struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Text      string `json:"text"`
	IsWarning bool   `json:"is_warning"`
}

// Name implements Engine.
func (c *Command) Name() string { return c.Path }

// Lint implements Engine.
func (c *Command) Lint(ctx context.Context, schema string) ([]Diagnostic, error) {
	out, err := c.run(ctx, "lint", schema)
	if err != nil {
		return nil, err
	}

	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}

	var records []lintRecord

	err = json.Unmarshal(out, &records)
	if err != nil {
		return nil, fmt.Errorf("decoding %s lint output: %w", c.Path, err)
	}

	diags := make([]Diagnostic, 0, len(records))
	for _, r := range records {
		diags = append(diags, Diagnostic{
			Start:   r.Start,
			End:     r.End,
			Message: r.Text,
			Warning: r.IsWarning,
		})
	}

	return diags, nil
}

// Format implements Engine.
func (c *Command) Format(ctx context.Context, schema string) (string, error) {
	out, err := c.run(ctx, "format", schema)
	if err != nil {
		return "", err
	}

	return string(out), nil
}

func (c *Command) run(ctx context.Context, sub, schema string) ([]byte, error) {
	if c.Path == "" {
		return nil, ErrNoCommand
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = psl.DefaultEngineTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := append(append([]string(nil), c.Args...), sub)

	cmd := exec.CommandContext(ctx, c.Path, args...) //#nosec G204 -- the engine command comes from the user's config
	cmd.Stdin = strings.NewReader(schema)
	cmd.Env = append(os.Environ(), c.Env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %s", c.Path, sub, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}
