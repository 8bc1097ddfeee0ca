//go:build integration

package integration_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dircacher/internal/report"
	"github.com/joe/dircacher/internal/tui/shared"
	"github.com/joe/dircacher/internal/warmer"
	"github.com/joe/dircacher/pkg/filesystem"
)

// eventCollector collects events for verification.
type eventCollector struct {
	mu     sync.Mutex
	events []warmer.Event
}

func (c *eventCollector) Emit(event warmer.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, event)
}

func (c *eventCollector) count(match func(warmer.Event) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0

	for _, event := range c.events {
		if match(event) {
			n++
		}
	}

	return n
}

// buildTree creates width^depth leaf directories, each with files and a
// symlink pointing back at the root.
func buildTree(t *testing.T, root string, depth, width, files int) (dirs, regular, links int) {
	t.Helper()

	dirs = 1

	var grow func(dir string, level int)

	grow = func(dir string, level int) {
		for i := range files {
			err := os.WriteFile(filepath.Join(dir, fmt.Sprintf("f%03d", i)), nil, 0o600)
			if err != nil {
				t.Fatalf("Failed to create file: %v", err)
			}

			regular++
		}

		err := os.Symlink(root, filepath.Join(dir, "back"))
		if err != nil {
			t.Fatalf("Failed to create symlink: %v", err)
		}

		links++

		if level == depth {
			return
		}

		for i := range width {
			sub := filepath.Join(dir, fmt.Sprintf("d%02d", i))

			err := os.Mkdir(sub, 0o755)
			if err != nil {
				t.Fatalf("Failed to create dir: %v", err)
			}

			dirs++

			grow(sub, level+1)
		}
	}

	grow(root, 0)

	return dirs, regular, links
}

// TestIntegration_WarmRealTree warms a generated tree end to end and checks
// the counts, the events and the rendered report agree.
func TestIntegration_WarmRealTree(t *testing.T) {
	g := NewWithT(t)

	root, err := filepath.EvalSymlinks(t.TempDir())
	g.Expect(err).NotTo(HaveOccurred())

	dirs, regular, links := buildTree(t, root, 3, 4, 5)

	collector := &eventCollector{}
	engine := warmer.NewEngine(filesystem.NewRealFileSystem())
	engine.Workers = 8
	engine.SetEventEmitter(collector)

	summary, err := engine.Run(context.Background(), []string{root, root + "/d00", filepath.Join(root, "missing")})
	g.Expect(err).NotTo(HaveOccurred())

	g.Expect(summary.DirsVisited).To(Equal(int64(dirs)))
	g.Expect(summary.Files).To(Equal(int64(regular)))
	g.Expect(summary.Symlinks).To(Equal(int64(links)))
	g.Expect(summary.RootsAccepted).To(Equal(2))
	g.Expect(summary.RootsRejected).To(Equal(1))
	g.Expect(summary.DuplicateDirs).To(Equal(int64(1)), "Expected d00 to be walked once")
	g.Expect(summary.Complete()).To(BeFalse())

	g.Expect(collector.count(func(e warmer.Event) bool {
		_, ok := e.(warmer.RootAccepted)
		return ok
	})).To(Equal(2))
	g.Expect(collector.count(func(e warmer.Event) bool {
		_, ok := e.(warmer.RootRejected)
		return ok
	})).To(Equal(1))

	out := report.Render(summary, report.Options{})
	g.Expect(out).To(ContainSubstring(report.Headline(summary)))
	g.Expect(out).To(ContainSubstring(filepath.Join(root, "missing")))
}

// TestIntegration_BridgeDeliversEveryLifecycleEvent runs the engine through the
// bridge the progress view uses and drains it concurrently.
func TestIntegration_BridgeDeliversEveryLifecycleEvent(t *testing.T) {
	g := NewWithT(t)

	root := t.TempDir()
	buildTree(t, root, 2, 3, 2)

	bridge := shared.NewEventBridge()
	engine := warmer.NewEngine(filesystem.NewRealFileSystem())
	engine.SetEventEmitter(bridge)

	received := make(chan []warmer.Event, 1)

	go func() {
		var events []warmer.Event

		listen := bridge.ListenCmd()

		for msg := listen(); msg != nil; msg = listen() {
			events = append(events, msg.(shared.EngineEventMsg).Event)
		}

		received <- events
	}()

	summary, err := engine.Run(context.Background(), []string{root})
	g.Expect(err).NotTo(HaveOccurred())

	bridge.Close()

	events := <-received
	g.Expect(events).NotTo(BeEmpty())
	g.Expect(events[0]).To(BeAssignableToTypeOf(warmer.WarmStarted{}))
	g.Expect(events[len(events)-1]).To(Equal(warmer.WarmComplete{Summary: summary}))
	g.Expect(bridge.Dropped()).To(BeZero())
}
