// Command widgetkit renders, serves and exports widget trees described in
// JSON.
package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/widgetkit/internal/config"
	"github.com/vango-dev/widgetkit/internal/errors"
	"github.com/vango-dev/widgetkit/pkg/tree"
	"github.com/vango-dev/widgetkit/pkg/widget"
	"github.com/vango-dev/widgetkit/pkg/widget/bootstrap"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		errors.PrintError(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "widgetkit",
		Short: "Bind widget trees to a DOM",
		Long: `widgetkit renders component trees with third-party widgets attached.

Trees are JSON descriptions:

  {"tag": "button", "text": "More", "widget": "popover",
   "props": {"title": "T", "content": "C"}}

Widgets: popover, tooltip.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		renderCmd(),
		serveCmd(),
		exportCmd(),
		versionCmd(),
	)
	return rootCmd
}

// registry returns the widgets the CLI knows by name.
func registry() *widget.Registry {
	r := widget.NewRegistry()
	bootstrap.Register(r)
	return r
}

// readTree reads a tree description from path, or stdin when path is "-".
func readTree(cmd *cobra.Command, path string) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.New("W501").Wrap(err).WithDetail("cannot read tree " + path)
	}
	return data, nil
}

func decodeTree(data []byte) (*tree.Node, error) {
	return tree.Decode(bytes.NewReader(data), registry())
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, err := cfg.SlogLevel()
	if err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
