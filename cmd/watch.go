package cmd

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/philjestin/pathresolver/internal/session"
	"github.com/philjestin/pathresolver/internal/workspace"
)

var (
	watchOut string // file to write the workspace map to after each reload
)

// watchCmd rebuilds the resolver whenever the launch configuration changes.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload the resolver when the launch configuration changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		report := func(st *session.State) {
			enc := json.NewEncoder(os.Stdout)
			_ = enc.Encode(struct {
				Timestamp int64  `json:"ts"`
				Session   string `json:"session"`
				Name      string `json:"name,omitempty"`
				Variant   string `json:"variant"`
			}{time.Now().UnixMilli(), st.ID.String(), st.Config.Name, st.Resolver.Variant().String()})

			if watchOut == "" {
				return
			}
			entries, err := workspace.MapAll(ctx, a.settings.Workspace, st.Resolver)
			if err != nil {
				a.log.WithError(err).Warn("map workspace")
				return
			}
			if err := emit(watchOut, entries); err != nil {
				a.log.WithError(err).Warn("write workspace map")
			}
		}
		report(a.session.Current())
		return watchLaunch(ctx, a, report)
	},
}

// watchLaunch reloads a's session when its launch file changes, calling
// onReload with each new State, until ctx is done.
func watchLaunch(ctx context.Context, a *app, onReload func(*session.State)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(a.launchFile)); err != nil {
		return err
	}
	log := a.log.WithField("file", a.launchFile)
	log.Info("watching launch configuration")

	// debounce changes
	var mu sync.Mutex
	var timer *time.Timer
	reload := func() {
		st, err := a.session.Reload(ctx)
		if err != nil {
			// previous resolver stays in place
			return
		}
		if onReload != nil {
			onReload(st)
		}
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != a.launchFile || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(300*time.Millisecond, reload)
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		}
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchOut, "out", "", "write the workspace map to this file after each reload")
}
