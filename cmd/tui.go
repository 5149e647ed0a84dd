// File: cmd/tui.go
package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/dragsort/internal/config"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/hooks"
	"github.com/xkilldash9x/dragsort/internal/observability"
	"github.com/xkilldash9x/dragsort/internal/page"
	"github.com/xkilldash9x/dragsort/internal/tui"
)

const (
	annotationLogger = "dragsort/logger"
	loggerFileOnly   = "file-only"
)

// fileOnlyLogger drops the console core. Without logger.log_file the TUI
// runs silent.
func fileOnlyLogger(cmd *cobra.Command, cfg config.LoggerConfig) {
	observability.Initialize(cfg, nil)
}

func newTUICmd() *cobra.Command {
	var (
		hooksPath string
		output    string
	)

	tuiCmd := &cobra.Command{
		Use:   "tui <fixture.html>",
		Short: "Sort the fixture's lists interactively with the mouse",
		Long: `Tui renders every drop list of the fixture in the terminal and forwards
mouse presses, motion and releases to the drag controller. Press q to quit;
the final order of each list is printed on exit.`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{annotationLogger: loggerFileOnly},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := observability.GetLogger()

			cfg, err := getConfigFromContext(ctx)
			if err != nil {
				return err
			}
			if hooksPath != "" {
				cfg.SetHooksScript(hooksPath)
			}

			vp := cfg.Viewport()
			p, err := page.LoadFile(args[0], vp.Width, vp.Height, logger)
			if err != nil {
				return err
			}
			opts, err := tuiOptions(cfg, logger)
			if err != nil {
				return err
			}
			m, err := tui.New(p, opts, tuiSettings(cfg), logger)
			if err != nil {
				return err
			}
			if err := tui.Run(ctx, m); err != nil {
				return err
			}

			if output != "" {
				if err := writeDocument(p, output); err != nil {
					return err
				}
			}
			return printOrders(cmd.OutOrStdout(), p)
		},
	}
	tuiCmd.Flags().StringVar(&hooksPath, "hooks", "", "hook script applied to the session (overrides hooks.script)")
	tuiCmd.Flags().StringVarP(&output, "output", "o", "", "write the final document to this HTML file on exit")
	return tuiCmd
}

func tuiOptions(cfg config.Interface, logger *zap.Logger) (dragdrop.Options, error) {
	opts := dragOptions(cfg)
	if script := cfg.Hooks().Script; script != "" {
		rt, err := hooks.LoadFile(script, cfg.Hooks().Timeout, logger)
		if err != nil {
			return opts, err
		}
		opts.Hooks = rt.Merge(opts.Hooks)
	}
	return opts, nil
}

// printOrders writes one "list: item, item" line per drop list, sorted by list.
func printOrders(w io.Writer, p *page.Page) error {
	snap := p.Snapshot()
	lists := make([]string, 0, len(snap))
	for list := range snap {
		lists = append(lists, list)
	}
	sort.Strings(lists)
	for _, list := range lists {
		if _, err := fmt.Fprintf(w, "%s: %s\n", list, strings.Join(snap[list], ", ")); err != nil {
			return err
		}
	}
	return nil
}
