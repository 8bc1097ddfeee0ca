package shared_test

import (
	"testing"
	"time"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/joe/dircacher/internal/tui/shared"
)

func TestFormatCount(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(shared.FormatCount(0, "file")).Should(Equal("0 files"))
	g.Expect(shared.FormatCount(1, "file")).Should(Equal("1 file"))
	g.Expect(shared.FormatCount(2, "symlink")).Should(Equal("2 symlinks"))
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(shared.FormatDuration(420 * time.Millisecond)).Should(Equal("420ms"))
	g.Expect(shared.FormatDuration(30 * time.Second)).Should(Equal("30s"))
	g.Expect(shared.FormatDuration(90 * time.Second)).Should(Equal("1m 30s"))
	g.Expect(shared.FormatDuration(2*time.Hour + 5*time.Minute + 3*time.Second)).Should(Equal("2h 5m 3s"))
}

func TestFormatRate(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(shared.FormatRate(5000, 2*time.Second, "entries")).Should(Equal("2,500 entries/s"))
	g.Expect(shared.FormatRate(10, 0, "entries")).Should(Equal("0 entries/s"))
}

func TestGroupDigits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-45000, "-45,000"},
	}

	for _, tt := range tests {
		if got := shared.GroupDigits(tt.n); got != tt.want {
			t.Errorf("GroupDigits(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestJoinSeries(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	g.Expect(shared.JoinSeries(nil)).Should(BeEmpty())
	g.Expect(shared.JoinSeries([]string{"a"})).Should(Equal("a"))
	g.Expect(shared.JoinSeries([]string{"a", "b"})).Should(Equal("a and b"))
	g.Expect(shared.JoinSeries([]string{"1 file", "2 symlinks", "3 dirs"})).Should(Equal("1 file, 2 symlinks, and 3 dirs"))
}
