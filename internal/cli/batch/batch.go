// Package batch implements the yuholens analysis commands.
package batch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cloo-solutions/yuholens/internal/cli"
	"github.com/spf13/cobra"
)

// openApp is replaced in tests.
var openApp = cli.Open

// withApp opens the dependencies, runs fn and releases them.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, app *cli.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(ctx, app)
}

// output opens path for writing, or returns stdout for "" and "-".
func output(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, f.Close, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
