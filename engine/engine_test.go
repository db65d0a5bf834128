package engine_test

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rlch/psl"
	"github.com/rlch/psl/engine"
)

// TestHelperProcess is not a real test: it is the fake engine executable the
// Command tests run, selected by PSL_ENGINE_HELPER.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("PSL_ENGINE_HELPER") != "1" {
		return
	}

	input, _ := io.ReadAll(os.Stdin)

	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]

			break
		}
	}

	switch {
	case slices.Contains(args, "crash"):
		fmt.Fprint(os.Stderr, "engine exploded")
		os.Exit(2)
	case slices.Contains(args, "garbage"):
		fmt.Print("{not json")
	case args[len(args)-1] == "lint":
		if strings.Contains(string(input), "broken") {
			fmt.Print(`[{"start":6,"end":12,"text":"invalid block","is_warning":false},{"start":0,"end":5,"text":"odd","is_warning":true}]`)
		}
	case args[len(args)-1] == "format":
		fmt.Print(strings.TrimSpace(string(input)) + "\n")
	}

	os.Exit(0)
}

func helperCommand() *engine.Command {
	return &engine.Command{
		Path:    os.Args[0],
		Args:    []string{"-test.run=TestHelperProcess", "--"},
		Env:     []string{"PSL_ENGINE_HELPER=1"},
		Timeout: 10 * time.Second,
	}
}

func TestCommand_Lint(t *testing.T) {
	t.Parallel()

	diags, err := helperCommand().Lint(context.Background(), "model broken {\n}")
	require.NoError(t, err)
	require.Len(t, diags, 2)

	assert.Equal(t, engine.Diagnostic{Start: 6, End: 12, Message: "invalid block"}, diags[0])
	assert.True(t, diags[1].Warning)
}

func TestCommand_LintClean(t *testing.T) {
	t.Parallel()

	diags, err := helperCommand().Lint(context.Background(), "model A {\n}")
	require.NoError(t, err)
	assert.Empty(t, diags)
}

func TestCommand_Format(t *testing.T) {
	t.Parallel()

	out, err := helperCommand().Format(context.Background(), "  model A {\n}\n\n")
	require.NoError(t, err)
	assert.Equal(t, "model A {\n}\n", out)
}

func TestCommand_Errors(t *testing.T) {
	t.Parallel()

	t.Run("process failure carries stderr", func(t *testing.T) {
		t.Parallel()

		cmd := helperCommand()
		cmd.Args = append(cmd.Args, "crash")

		_, err := cmd.Format(context.Background(), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "engine exploded")
	})

	t.Run("undecodable lint output", func(t *testing.T) {
		t.Parallel()

		cmd := helperCommand()
		cmd.Args = append(cmd.Args, "garbage")

		_, err := cmd.Lint(context.Background(), "")
		require.Error(t, err)
	})

	t.Run("no command", func(t *testing.T) {
		t.Parallel()

		_, err := (&engine.Command{}).Lint(context.Background(), "")
		require.ErrorIs(t, err, engine.ErrNoCommand)
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	assert.IsType(t, engine.Nop{}, engine.New(nil))
	assert.IsType(t, engine.Nop{}, engine.New(&psl.Config{}))

	cmd, ok := engine.New(&psl.Config{Engine: psl.EngineConfig{Command: "prisma-fmt"}}).(*engine.Command)
	require.True(t, ok)
	assert.Equal(t, "prisma-fmt", cmd.Path)
	assert.Equal(t, psl.DefaultEngineTimeout, cmd.Timeout)

	cmd, ok = engine.New(&psl.Config{Engine: psl.EngineConfig{Command: "prisma-fmt", Timeout: time.Second}}).(*engine.Command)
	require.True(t, ok)
	assert.Equal(t, time.Second, cmd.Timeout)

	out, err := engine.Nop{}.Format(context.Background(), "model A {}")
	require.NoError(t, err)
	assert.Equal(t, "model A {}", out)
}

func TestDiagnostic_Range(t *testing.T) {
	t.Parallel()

	text := "model A {\n  bad Int\n}"
	d := engine.Diagnostic{Start: 12, End: 15}

	assert.Equal(t, psl.NewRange(1, 2, 1, 5), d.Range(text))
}
