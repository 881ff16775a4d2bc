package commands

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounceDelay coalesces editor save bursts into one re-check.
const debounceDelay = 200 * time.Millisecond

// NewWatchCommand creates the watch command.
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [sources...]",
		Short: "Re-run the order check when sources change",
		Long: `Watch the source files and the numbering table, re-running the check
whenever one of them is written. Violations are reported on each run;
the command keeps watching until interrupted.`,
		Example: `  texdag watch --aux build/main.aux chapters/*.tex`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args)
		},
	}

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	cc := NewCommandContext(cmd)

	eng, err := cc.NewEngine(args)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the parent directories: editors replace files on save, so
	// watching the paths themselves loses the watch after the first write.
	watched := make(map[string]bool)
	paths := append([]string{}, cc.Cfg.Sources...)
	if len(args) > 0 {
		paths = args
	}
	paths = append(paths, cc.Cfg.Aux)
	relevant := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		relevant[filepath.Clean(p)] = true
		dir := filepath.Dir(p)
		if !watched[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			watched[dir] = true
		}
	}

	recheck := func() {
		res, err := eng.Run(cmd.Context())
		if err != nil {
			cc.Renderer.Errorf("check failed: %v\n", err)
			return
		}
		printDiagnostics(cc.Renderer, res.Diagnostics)
		if err := checkText(cc.Renderer, res); err != nil {
			cc.Renderer.Errorf("render failed: %v\n", err)
		}
	}

	recheck()
	cc.Logger.Info("watching for changes", "dirs", len(watched))

	ctx := cmd.Context()
	var debounce *time.Timer
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !relevant[filepath.Clean(event.Name)] {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				cc.Renderer.Errorf("change detected: %s\n", filepath.Base(event.Name))
				recheck()
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Warn("watcher error", "error", err)
		}
	}
}
