// File: cmd/replay.go
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/dragsort/api/schemas"
	"github.com/xkilldash9x/dragsort/internal/dragdrop"
	"github.com/xkilldash9x/dragsort/internal/observability"
	"github.com/xkilldash9x/dragsort/internal/page"
	"github.com/xkilldash9x/dragsort/internal/replay"
)

// errRunFailed signals a completed run whose result did not pass. The result
// has already been printed, so Execute does not repeat it.
var errRunFailed = errors.New("replay did not pass")

type replayFlags struct {
	follow    string
	fromStart bool
	poll      bool
	limit     int
	hooks     string
	output    string
	compact   bool
}

func newReplayCmd() *cobra.Command {
	var flags replayFlags

	replayCmd := &cobra.Command{
		Use:   "replay <scenario.json>",
		Short: "Replay a scripted pointer session against an HTML fixture",
		Long: `Replay loads the scenario's fixture, plays its steps through the drag
controller and prints the run result as JSON. With --follow, steps are read
from a JSON Lines file as it grows and frames run in real time.

The command exits non-zero when a step fails or an expected order does not
match.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd, args[0], flags)
		},
	}

	f := replayCmd.Flags()
	f.StringVar(&flags.follow, "follow", "", "tail a JSON Lines event feed instead of the scenario steps")
	f.BoolVar(&flags.fromStart, "from-start", false, "read the event feed from its beginning")
	f.BoolVar(&flags.poll, "poll", false, "poll the event feed instead of using file notifications")
	f.IntVar(&flags.limit, "limit", 0, "stop following after this many events (0 means until interrupted)")
	f.StringVar(&flags.hooks, "hooks", "", "hook script applied to the session (overrides hooks.script)")
	f.StringVarP(&flags.output, "output", "o", "", "write the final document to this HTML file")
	f.BoolVar(&flags.compact, "compact", false, "print the result on a single line")
	return replayCmd
}

func runReplay(cmd *cobra.Command, path string, flags replayFlags) error {
	ctx := cmd.Context()
	logger := observability.GetLogger()

	cfg, err := getConfigFromContext(ctx)
	if err != nil {
		return err
	}
	if flags.hooks != "" {
		cfg.SetHooksScript(flags.hooks)
	}

	sc, err := replay.LoadScenario(path)
	if err != nil {
		return err
	}
	runner := replay.NewRunner(logger, replaySettings(cfg))

	var (
		result *schemas.RunResult
		p      *page.Page
	)
	if flags.follow != "" {
		result, p, err = runner.Follow(ctx, sc, flags.follow, replay.FollowOptions{
			FromStart: flags.fromStart,
			Limit:     flags.limit,
			Poll:      flags.poll,
			OnEvent: func(step int, ev schemas.Event, ctrl *dragdrop.Controller) {
				logger.Debug("Event applied.", zap.Int("step", step), zap.Stringer("type", ev.Type), zap.Bool("dragging", ctrl.Active()))
			},
		})
	} else {
		result, p, err = runner.Run(ctx, sc)
	}
	if err != nil {
		return err
	}

	if flags.output != "" {
		if err := writeDocument(p, flags.output); err != nil {
			return err
		}
		logger.Info("Final document written.", zap.String("path", flags.output))
	}
	if err := printResult(cmd.OutOrStdout(), result, flags.compact); err != nil {
		return err
	}
	if !result.Passed {
		return errRunFailed
	}
	return nil
}

func printResult(w io.Writer, result *schemas.RunResult, compact bool) error {
	var (
		data []byte
		err  error
	)
	if compact {
		data, err = json.Marshal(result)
	} else {
		data, err = json.MarshalIndent(result, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode run result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func writeDocument(p *page.Page, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file '%s': %w", path, err)
	}
	if err := p.Render(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
