// Command psl-lsp is a Language Server Protocol server for Prisma schemas.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rlch/psl"
	"github.com/rlch/psl/lsp"
)

var version = "dev"

func main() {
	app := &cli.Command{
		Name:    "psl-lsp",
		Version: version,
		Usage:   "Language server for Prisma schema files, speaking LSP over stdio",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level: debug, info, warn or error (overrides the config file)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file to use instead of the one found from the workspace root",
			},
		},
		Action: serve,
	}

	err := app.Run(context.Background(), os.Args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	var opts []lsp.Option

	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return err
	}

	if cmd.String("config") != "" {
		opts = append(opts, lsp.WithConfig(cfg))
	}

	level := cmd.String("log-level")
	if level == "" && cfg != nil {
		level = cfg.Log.Level
	}

	logger, err := newLogger(level)
	if err != nil {
		return err
	}

	defer func() {
		_ = logger.Sync()
	}()

	logger.Info("Starting psl-lsp server", zap.String("version", version))

	return run(ctx, logger, os.Stdin, os.Stdout, opts...)
}

// loadConfig reads path, or the config found from the working directory when
// path is empty. A missing config is not an error.
func loadConfig(path string) (*psl.Config, error) {
	if path != "" {
		return psl.LoadConfigFile(path)
	}

	cfg, err := psl.LoadConfig(".")
	if errors.Is(err, psl.ErrConfigNotFound) {
		return nil, nil //nolint:nilnil
	}

	return cfg, err
}

// newLogger builds a development logger writing to stderr, since stdout carries
// the LSP stream.
func newLogger(level string) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}

		config.Level = zap.NewAtomicLevelAt(lvl)
	}

	return config.Build()
}

func run(ctx context.Context, logger *zap.Logger, in io.Reader, out io.Writer, opts ...lsp.Option) error {
	// Create a JSON-RPC stream connection over stdio
	stream := jsonrpc2.NewStream(&readWriteCloser{in, out})
	conn := jsonrpc2.NewConn(stream)

	// Create a client to send notifications to the editor
	client := protocol.ClientDispatcher(conn, logger)

	server := lsp.NewServer(client, logger, opts...)

	// Register the server handler with the connection
	conn.Go(ctx, protocol.ServerHandler(server, nil))

	// Wait for the connection to close
	<-conn.Done()

	return conn.Err()
}

// readWriteCloser wraps separate reader/writer into io.ReadWriteCloser.
type readWriteCloser struct {
	io.Reader
	io.Writer
}

func (rwc *readWriteCloser) Close() error {
	// Close writer if it's closeable
	if c, ok := rwc.Writer.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
