package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/timetable/internal/config"
)

func TestMain(m *testing.M) {
	DisableColor()
	os.Exit(m.Run())
}

type harness struct {
	t      *testing.T
	dir    string
	config *config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Log.File = ""
	return &harness{t: t, dir: t.TempDir(), config: cfg}
}

// run executes one command line against a fresh command tree, the way a
// separate process invocation would.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	a := NewApp(h.config)
	a.configPath = filepath.Join(h.dir, "config.toml")
	h.t.Cleanup(func() { _ = a.Close() })

	var out bytes.Buffer
	a.root.SetOut(&out)
	a.root.SetErr(&out)
	a.root.SetArgs(append(args, "--db", filepath.Join(h.dir, "timetable.db")))
	err := a.Execute()
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	if err != nil {
		h.t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

// createdID pulls the entry id out of the add command's output.
func createdID(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	if len(fields) < 2 || fields[0] != "Created" {
		t.Fatalf("unexpected add output %q", out)
	}
	return strings.TrimSuffix(fields[1], ":")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("version")
	if !strings.Contains(out, "timetable dev") {
		t.Errorf("version output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(h.dir, "timetable.db")); !os.IsNotExist(err) {
		t.Error("version should not open the database")
	}
}

func TestAddAndDay(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("add", "09:00", "10:30", "--date", "2025-03-10", "--comment", "Code review")
	if !strings.Contains(out, "2025-03-10 09:00-10:30") {
		t.Errorf("add output = %q", out)
	}
	if !strings.HasPrefix(createdID(t, out), "e_") {
		t.Errorf("entry id should carry the e_ prefix: %q", out)
	}

	out = h.mustRun("day", "2025-03-10")
	for _, want := range []string{"Monday, March 10 2025", "09:00-10:30", "1h 30m", "General", "Code review", "Total 1h 30m / 8h goal"} {
		if !strings.Contains(out, want) {
			t.Errorf("day output missing %q:\n%s", want, out)
		}
	}

	out = h.mustRun("day", "2025-03-11")
	if !strings.Contains(out, "No entries.") {
		t.Errorf("empty day output = %q", out)
	}
}

func TestAddSnapsToStep(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("add", "09:07", "09:52", "--date", "2025-03-10")
	if !strings.Contains(out, "09:00-09:45") {
		t.Errorf("times should snap to 15 minutes: %q", out)
	}
}

func TestAddRejectsOverlap(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "09:00", "10:00", "--date", "2025-03-10")

	_, err := h.run("add", "09:30", "10:30", "--date", "2025-03-10")
	if err == nil || !strings.Contains(err.Error(), "overlaps") {
		t.Fatalf("err = %v, want overlap", err)
	}

	// Touching entries are fine.
	h.mustRun("add", "10:00", "11:00", "--date", "2025-03-10")
}

func TestAddValidatesArguments(t *testing.T) {
	h := newHarness(t)
	tests := [][]string{
		{"add", "10:00", "09:00"},
		{"add", "9am", "10:00"},
		{"add", "09:00", "10:00", "--date", "10/03/2025"},
		{"add", "09:00", "10:00", "--project", "nope"},
	}
	for _, args := range tests {
		if _, err := h.run(args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestDayMarksDisplacedEntries(t *testing.T) {
	h := newHarness(t)
	h.config.Layout.MinHeightMinutes = 30

	h.mustRun("add", "09:00", "09:15", "--date", "2025-03-10")
	h.mustRun("add", "09:15", "10:00", "--date", "2025-03-10")

	out := h.mustRun("day", "2025-03-10")
	if !strings.Contains(out, "(drawn at 09:35)") {
		t.Errorf("second entry should be drawn below the stretched first one:\n%s", out)
	}
	if strings.Count(out, "drawn at") != 1 {
		t.Errorf("only one entry is displaced:\n%s", out)
	}
}

func TestMoveAndRemove(t *testing.T) {
	h := newHarness(t)
	id := createdID(t, h.mustRun("add", "09:00", "10:00", "--date", "2025-03-10"))
	other := createdID(t, h.mustRun("add", "12:00", "13:00", "--date", "2025-03-10"))

	out := h.mustRun("move", id, "10:00", "11:30")
	if !strings.Contains(out, "09:00-10:00 -> 2025-03-10 10:00-11:30") {
		t.Errorf("move output = %q", out)
	}

	if _, err := h.run("move", id, "11:00", "12:30"); err == nil || !strings.Contains(err.Error(), "overlaps") {
		t.Errorf("moving onto another entry: err = %v", err)
	}
	if _, err := h.run("move", "e_missing", "11:00", "12:00"); err == nil {
		t.Error("moving an unknown entry should fail")
	}

	h.mustRun("rm", other)
	if _, err := h.run("rm", other); err == nil {
		t.Error("deleting twice should fail")
	}

	out = h.mustRun("day", "2025-03-10")
	if !strings.Contains(out, "10:00-11:30") || strings.Contains(out, "12:00-13:00") {
		t.Errorf("day output after move and rm:\n%s", out)
	}
}

func TestWeek(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "09:00", "17:00", "--date", "2025-03-10")
	h.mustRun("add", "09:00", "10:00", "--date", "2025-03-12")

	out := h.mustRun("week", "2025-03-12")
	for _, want := range []string{"Week of Mar 10 - Mar 16 2025", "Mon 10", "8h 00m / 8h 00m ✓", "1h 00m / 8h 00m", "Total 9h 00m"} {
		if !strings.Contains(out, want) {
			t.Errorf("week output missing %q:\n%s", want, out)
		}
	}
}

func TestProjects(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("projects", "add", "Work", "--color", "#112233")
	if !strings.Contains(out, "Created project") {
		t.Errorf("projects add output = %q", out)
	}
	if _, err := h.run("projects", "add", "Bad", "--color", "red"); err == nil {
		t.Error("invalid color should be refused")
	}

	out = h.mustRun("add", "09:00", "10:00", "--date", "2025-03-10", "--project", "work")
	if !strings.Contains(out, "Work") {
		t.Errorf("project lookup should ignore case: %q", out)
	}

	out = h.mustRun("projects")
	if !strings.Contains(out, "General (default)") || !strings.Contains(out, "Work") {
		t.Errorf("projects output:\n%s", out)
	}

	if _, err := h.run("projects", "rm", "default"); err == nil {
		t.Error("the default project cannot be deleted")
	}
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "09:00", "10:00", "--date", "2025-03-10")
	h.mustRun("add", "09:00", "10:00", "--date", "2025-04-01")

	for _, format := range []string{"csv", "json", "ics"} {
		path := filepath.Join(h.dir, "out."+format)
		out := h.mustRun("export", "--format", format, "--out", path, "--from", "2025-03-01", "--to", "2025-03-31")
		if !strings.Contains(out, "Exported 1 entries") {
			t.Errorf("%s: output = %q", format, out)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !bytes.Contains(data, []byte("e_")) {
			t.Errorf("%s: export does not contain the entry", format)
		}
	}

	if _, err := h.run("export", "--format", "xml", "--out", filepath.Join(h.dir, "x")); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestConfigInit(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("config")
	if !strings.Contains(out, "not found") || !strings.Contains(out, "minutes_per_row = 15") {
		t.Errorf("config output:\n%s", out)
	}

	h.mustRun("config", "init")
	if _, err := config.LoadFrom(filepath.Join(h.dir, "config.toml")); err != nil {
		t.Fatalf("written config does not load: %v", err)
	}
	if _, err := h.run("config", "init"); err == nil {
		t.Error("init should not overwrite an existing file")
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"9:05", 545, true},
		{"24:00", 1440, true},
		{"24:01", 0, false},
		{"12:60", 0, false},
		{"9:5", 0, false},
		{"noon", 0, false},
	}
	for _, tt := range tests {
		got, err := parseClock(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("parseClock(%q) err = %v", tt.in, err)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("parseClock(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.Local)
	tests := map[string]string{
		"":           "2025-03-10",
		"today":      "2025-03-10",
		"Yesterday":  "2025-03-09",
		"tomorrow":   "2025-03-11",
		"2024-02-29": "2024-02-29",
	}
	for in, want := range tests {
		got, err := parseDate(in, now)
		if err != nil {
			t.Errorf("parseDate(%q): %v", in, err)
			continue
		}
		if got.Format(time.DateOnly) != want || got.Hour() != 0 {
			t.Errorf("parseDate(%q) = %v, want %s", in, got, want)
		}
	}
	if _, err := parseDate("2025-02-30", now); err == nil {
		t.Error("invalid date should fail")
	}
}
