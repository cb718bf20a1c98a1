package linkservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/starford/doclinks/internal/apperr"
	"github.com/starford/doclinks/internal/checker"
	"github.com/starford/doclinks/internal/sse"
	"github.com/starford/doclinks/internal/testutil"
)

type capture struct {
	mu     sync.Mutex
	events []sse.ReportEvent
}

func (c *capture) PublishReport(ev sse.ReportEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
}

func testService(t *testing.T, files map[string]string, opts ...Option) *Service {
	t.Helper()
	_, store := testutil.TestDocs(t, files)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	chk := checker.New(checker.WithLogger(logger))
	return NewService(store, chk, append([]Option{WithLogger(logger)}, opts...)...)
}

func TestLatest_BeforeFirstRun(t *testing.T) {
	svc := testService(t, nil)
	if _, err := svc.Latest(); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestCheck_RecordsAndPublishes(t *testing.T) {
	pub := &capture{}
	svc := testService(t, map[string]string{
		"a.md": "# A\n[b](/b#missing)\n",
		"b.md": "# B\n",
	}, WithPublisher(pub))

	run, err := svc.Check(context.Background(), []string{"a.md"})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if run.ID == "" {
		t.Error("run ID is empty")
	}
	if run.Report.OK() || len(run.Report.Problems) != 1 {
		t.Errorf("problems = %v", run.Report.Problems)
	}

	latest, err := svc.Latest()
	if err != nil || latest.ID != run.ID {
		t.Errorf("latest = %+v, %v", latest, err)
	}

	if len(pub.events) != 1 {
		t.Fatalf("events = %d, want 1", len(pub.events))
	}
	ev := pub.events[0]
	if ev.RunID != run.ID || ev.OK || ev.Problems != 1 || ev.Files != 2 || !slices.Equal(ev.Changed, []string{"a.md"}) {
		t.Errorf("event = %+v", ev)
	}
}

func TestCheck_NewRunIDEachTime(t *testing.T) {
	svc := testService(t, map[string]string{"a.md": "# A\n"})
	first, _ := svc.Check(context.Background(), nil)
	second, _ := svc.Check(context.Background(), nil)
	if first.ID == second.ID {
		t.Errorf("run IDs repeat: %s", first.ID)
	}
}

func TestAnchors(t *testing.T) {
	svc := testService(t, map[string]string{
		"guide/setup.md": "# Setup\n## Install\n## Install\n",
	})
	for _, path := range []string{"guide/setup.md", "/guide/setup", "guide/setup"} {
		got, err := svc.Anchors(context.Background(), path)
		if err != nil {
			t.Fatalf("Anchors(%q): %v", path, err)
		}
		if want := []string{"setup", "install", "install-1"}; !slices.Equal(got, want) {
			t.Errorf("Anchors(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestAnchors_Errors(t *testing.T) {
	svc := testService(t, map[string]string{"a.md": "no headings\n"})

	got, err := svc.Anchors(context.Background(), "a")
	if err != nil || got == nil || len(got) != 0 {
		t.Errorf("Anchors(a) = %v, %v; want empty, nil", got, err)
	}
	if _, err := svc.Anchors(context.Background(), "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Anchors(context.Background(), "../etc/passwd"); !errors.Is(err, apperr.ErrInvalidPath) {
		t.Errorf("traversal: err = %v, want ErrInvalidPath", err)
	}
	if _, err := svc.Anchors(context.Background(), " "); !errors.Is(err, apperr.ErrInvalidPath) {
		t.Errorf("empty: err = %v, want ErrInvalidPath", err)
	}
}
