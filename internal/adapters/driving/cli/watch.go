package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/askdocs/askdocs-cli/internal/logger"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new or changed files",
	Long: `Watches the given directory tree and automatically ingests supported
files when they are created or modified. Writes are debounced so a file
being copied in is ingested once, after it settles.

Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 2*time.Second, "settle time before ingesting a changed file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	a, err := getAssistant(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	// Catch up on existing content first, then watch for changes.
	report, err := a.AddPath(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("initial scan of %s: %w", dir, err)
	}
	printIngestReport(cmd, report)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, dir); err != nil {
		return err
	}

	cmd.Printf("Watching %s for changes (Ctrl-C to stop)...\n", dir)

	// Pending timers are stopped before the deferred a.Close() runs, so
	// a late debounce cannot ingest into a closed assistant.
	deb := newDebouncer(watchDebounce)
	defer deb.stop()

	ingest := func(path string) {
		if cmd.Context().Err() != nil {
			return
		}
		report, err := a.AddPath(cmd.Context(), path)
		if err != nil {
			logger.Error("Ingesting %s failed: %v", path, err)
			return
		}
		printIngestReport(cmd, report)
	}

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need their own watch.
				if err := watchTree(watcher, event.Name); err == nil {
					logger.Debug("Watching new path %s", event.Name)
				}
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) {
				if settings.SupportsExtension(strings.ToLower(filepath.Ext(event.Name))) {
					deb.schedule(event.Name, ingest)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)
		}
	}
}

// debouncer coalesces bursts of events per path, running the callback
// once after the path has been quiet for the configured delay.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	pending map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, pending: make(map[string]*time.Timer)}
}

func (d *debouncer) schedule(path string, fn func(string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, ok := d.pending[path]; ok {
		timer.Stop()
	}
	d.pending[path] = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		delete(d.pending, path)
		d.mu.Unlock()
		fn(path)
	})
}

// stop cancels every pending timer.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, timer := range d.pending {
		timer.Stop()
		delete(d.pending, path)
	}
}

// watchTree adds the path and, if it is a directory, all its
// subdirectories to the watcher. Non-directory paths are ignored
// silently; files are covered by their parent directory's watch.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		return watcher.Add(path)
	})
}
