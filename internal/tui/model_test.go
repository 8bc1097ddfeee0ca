//nolint:varnamelen // Test files use idiomatic short variable names (g, m, etc.)
package tui_test

import (
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dircacher/internal/tui"
	"github.com/joe/dircacher/internal/tui/shared"
	"github.com/joe/dircacher/internal/warmer"
	errs "github.com/joe/dircacher/pkg/errors"
)

type fakeSource struct {
	progress  warmer.Progress
	cancelled atomic.Int32
}

func (f *fakeSource) Progress() warmer.Progress { return f.progress }

func (f *fakeSource) Cancel() { f.cancelled.Add(1) }

func newModel(t *testing.T, source *fakeSource) tui.Model {
	t.Helper()

	bridge := shared.NewEventBridge()
	t.Cleanup(bridge.Close)

	return tui.NewModel(source, bridge, time.Unix(1000, 0))
}

func update(t *testing.T, m tui.Model, msg tea.Msg) (tui.Model, tea.Cmd) {
	t.Helper()

	next, cmd := m.Update(msg)

	model, ok := next.(tui.Model)
	if !ok {
		t.Fatalf("Expected tui.Model, got %T", next)
	}

	return model, cmd
}

func TestModel_InitReturnsCommands(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, &fakeSource{})
	g.Expect(m.Init()).NotTo(BeNil())
}

func TestModel_TickPollsProgress(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	source := &fakeSource{progress: warmer.Progress{DirsVisited: 3, Files: 12, Symlinks: 1, Queued: 4, InFlight: 2}}
	m := newModel(t, source)

	m, cmd := update(t, m, shared.TickMsg(time.Unix(1002, 0)))
	g.Expect(cmd).NotTo(BeNil())

	view := m.View()
	g.Expect(view).To(ContainSubstring("12 files, 1 symlink, and 3 dirs"))
	g.Expect(view).To(ContainSubstring("4 queued, 2 in flight"))
	g.Expect(view).To(ContainSubstring("2s"))
}

func TestModel_EventsFillTheView(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, &fakeSource{})
	classifier := errs.NewClassifier()

	m, _ = update(t, m, shared.EngineEventMsg{Event: warmer.WarmStarted{Roots: 2, Workers: 4}})
	m, _ = update(t, m, shared.EngineEventMsg{Event: warmer.RootAccepted{Path: "/usr"}})
	m, _ = update(t, m, shared.EngineEventMsg{Event: warmer.RootAccepted{Path: "/var"}})
	m, _ = update(t, m, shared.EngineEventMsg{Event: warmer.RootRejected{
		Record: errs.NewInvalidRoot("/missing", syscall.ENOENT),
	}})

	for _, path := range []string{"/usr/a", "/usr/b", "/usr/c", "/usr/d"} {
		m, _ = update(t, m, shared.EngineEventMsg{Event: warmer.EntryFailed{
			Record: errs.NewRecord(classifier, "opendir", path, syscall.EACCES),
		}})
	}

	m, cmd := update(t, m, shared.EngineEventMsg{Event: warmer.WarmProgress{Progress: warmer.Progress{InFlight: 2}}})
	g.Expect(cmd).NotTo(BeNil(), "Expected to keep listening")

	view := m.View()
	g.Expect(view).To(ContainSubstring("Warming /usr and 1 more"))
	g.Expect(view).To(ContainSubstring("2/4"))
	g.Expect(view).To(MatchRegexp(`Errors:.*5`))
	g.Expect(view).To(ContainSubstring("/missing"))
	g.Expect(view).To(ContainSubstring("more (see summary)"))
	g.Expect(view).NotTo(ContainSubstring("/usr/a"))
}

func TestModel_CancelKeysCancelOnce(t *testing.T) {
	t.Parallel()

	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyCtrlC},
		{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		t.Run(key.String(), func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			source := &fakeSource{}
			m := newModel(t, source)

			m, cmd := update(t, m, key)
			g.Expect(cmd).To(BeNil(), "Expected to wait for the run instead of quitting")

			m, _ = update(t, m, key)

			g.Expect(source.cancelled.Load()).To(Equal(int32(1)))
			g.Expect(m.Cancelling()).To(BeTrue())
			g.Expect(m.View()).To(ContainSubstring("Cancelling"))
		})
	}
}

func TestModel_DoneQuitsAndClearsTheView(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, &fakeSource{})
	summary := &warmer.Summary{Cancelled: true}

	m, cmd := update(t, m, shared.DoneMsg{Summary: summary, Err: warmer.ErrCancelled})
	g.Expect(cmd).NotTo(BeNil())
	g.Expect(cmd()).To(Equal(tea.Quit()))

	got, err := m.Result()
	g.Expect(got).To(BeIdenticalTo(summary))
	g.Expect(err).To(MatchError(warmer.ErrCancelled))
	g.Expect(m.Done()).To(BeTrue())
	g.Expect(m.View()).To(BeEmpty())

	_, cmd = update(t, m, shared.TickMsg(time.Now()))
	g.Expect(cmd).To(BeNil(), "Expected ticks to stop after done")
}

func TestModel_WidthTruncatesErrorPaths(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	m := newModel(t, &fakeSource{})
	long := "/" + strings.Repeat("segment/", 20) + "leaf"

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})
	m, _ = update(t, m, shared.EngineEventMsg{Event: warmer.EntryFailed{
		Record: errs.NewRecord(errs.NewClassifier(), "lstat", long, syscall.EIO),
	}})

	g.Expect(m.View()).NotTo(ContainSubstring(long))
	g.Expect(m.View()).To(ContainSubstring("leaf"))
}
