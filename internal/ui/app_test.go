package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/balloon/internal/prefs"
	"github.com/five82/balloon/internal/state"
	"github.com/five82/balloon/internal/translator"
)

type fakeJobs struct {
	store    *state.Store
	endpoint string
	upload   translator.Upload
	err      error
	calls    int
}

func (f *fakeJobs) Submit(_ context.Context, rawEndpoint string, upload translator.Upload) (string, error) {
	f.calls++
	f.endpoint = rawEndpoint
	f.upload = upload
	return "job-1", f.err
}

func (f *fakeJobs) Store() *state.Store { return f.store }

type fakeHealth struct {
	url    string
	status translator.HealthResponse
	err    error
}

func (f *fakeHealth) Health(_ context.Context, url string) (translator.HealthResponse, error) {
	f.url = url
	return f.status, f.err
}

func newTestModel(t *testing.T, jobs Jobs) Model {
	t.Helper()
	m := New(Options{
		Jobs:      jobs,
		Endpoint:  "http://svc:8000",
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(k)
		m = next.(Model)
	}
	return m, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestNew_PrefillsEndpointAndFocusesIt(t *testing.T) {
	m := newTestModel(t, &fakeJobs{store: state.NewStore()})
	if got := m.endpointInput.Value(); got != "http://svc:8000" {
		t.Fatalf("endpoint = %q, want http://svc:8000", got)
	}
	if m.focus != focusEndpoint {
		t.Fatalf("focus = %v, want endpoint", m.focus)
	}
	if !strings.Contains(m.View(), "http://svc:8000/translate-manga") {
		t.Fatalf("view missing resolved submission url")
	}
}

func TestView_NotReadyBeforeWindowSize(t *testing.T) {
	m := New(Options{PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View() = %q, want Loading...", got)
	}
}

func TestTyping_GoesToFocusedInput(t *testing.T) {
	m := newTestModel(t, &fakeJobs{store: state.NewStore()})
	m, _ = press(t, m, tabKey, runes("T"), runes("q"))
	if got := m.imageInput.Value(); got != "Tq" {
		t.Fatalf("image = %q, want Tq (letters typed, not commands)", got)
	}
	if m.theme.Name != "Ink" {
		t.Fatalf("theme = %q, want Ink unchanged", m.theme.Name)
	}
}

func TestSubmit_EmptyPathShowsNotice(t *testing.T) {
	jobs := &fakeJobs{store: state.NewStore()}
	m := newTestModel(t, jobs)

	m, cmd := press(t, m, enterKey)
	if cmd != nil {
		t.Fatalf("expected no command for empty image path")
	}
	if m.notice == "" || m.noticeLevel != noticeDanger {
		t.Fatalf("notice = %q (%v), want danger notice", m.notice, m.noticeLevel)
	}
	if m.focus != focusImage {
		t.Fatalf("focus = %v, want image field", m.focus)
	}
	if jobs.calls != 0 {
		t.Fatalf("Submit calls = %d, want 0", jobs.calls)
	}
}

func TestSubmitCmd_ReadsFileAndSubmits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page-001.png")
	if err := os.WriteFile(path, []byte("image bytes"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	jobs := &fakeJobs{store: state.NewStore()}

	msg := submitCmd(context.Background(), jobs, "http://svc", path)()
	res, ok := msg.(submitResultMsg)
	if !ok {
		t.Fatalf("msg = %T, want submitResultMsg", msg)
	}
	if res.err != nil || res.readErr != nil || res.token != "job-1" {
		t.Fatalf("result = %+v, want token job-1 without errors", res)
	}
	if jobs.endpoint != "http://svc" {
		t.Fatalf("endpoint = %q, want http://svc", jobs.endpoint)
	}
	if jobs.upload.Filename != "page-001.png" || string(jobs.upload.Content) != "image bytes" {
		t.Fatalf("upload = %q/%q", jobs.upload.Filename, jobs.upload.Content)
	}
}

func TestSubmitCmd_MissingFileIsReadError(t *testing.T) {
	jobs := &fakeJobs{store: state.NewStore()}
	msg := submitCmd(context.Background(), jobs, "", filepath.Join(t.TempDir(), "nope.png"))()
	res := msg.(submitResultMsg)
	if res.readErr == nil {
		t.Fatalf("readErr = nil, want error")
	}
	if jobs.calls != 0 {
		t.Fatalf("Submit calls = %d, want 0", jobs.calls)
	}
}

func TestSubmitCmd_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, "p.png"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	jobs := &fakeJobs{store: state.NewStore()}
	res := submitCmd(context.Background(), jobs, "", "~/p.png")().(submitResultMsg)
	if res.readErr != nil {
		t.Fatalf("readErr = %v, want nil", res.readErr)
	}
	if jobs.upload.Filename != "p.png" {
		t.Fatalf("filename = %q, want p.png", jobs.upload.Filename)
	}
}

func TestSubmit_SavesEndpointAndMovesFocus(t *testing.T) {
	jobs := &fakeJobs{store: state.NewStore()}
	m := newTestModel(t, jobs)
	m.imageInput.SetValue("/tmp/page.png")

	m, cmd := press(t, m, enterKey)
	if cmd == nil {
		t.Fatalf("expected submit command")
	}
	if m.focus != focusResults {
		t.Fatalf("focus = %v, want results", m.focus)
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.LastEndpoint != "http://svc:8000" {
		t.Fatalf("LastEndpoint = %q, want http://svc:8000", p.LastEndpoint)
	}
}

func TestSubmitResult_Notices(t *testing.T) {
	m := newTestModel(t, &fakeJobs{store: state.NewStore()})

	next, _ := m.Update(submitResultMsg{readErr: errors.New("read image: no such file")})
	m = next.(Model)
	if m.notice != "read image: no such file" || m.noticeLevel != noticeDanger {
		t.Fatalf("notice = %q, want read error", m.notice)
	}

	next, _ = m.Update(submitResultMsg{err: translator.ErrEmptyUpload})
	m = next.(Model)
	if m.notice != "That file is empty." {
		t.Fatalf("notice = %q, want empty file notice", m.notice)
	}
}

func TestSnapshot_RendersResultsWithTwoDecimals(t *testing.T) {
	store := state.NewStore()
	m := newTestModel(t, &fakeJobs{store: store})

	store.Begin("t1", "page.png", time.Now())
	store.MarkProcessing("t1", "abc")
	store.Complete("t1", []translator.Bubble{
		{OriginalText: "おはよう", TranslatedText: "Good morning", Confidence: 0.876},
	})

	next, _ := m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)
	view := m.View()
	for _, want := range []string{"0.88", "Good morning", "おはよう", "Translated 1 bubble", "Done"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestSnapshot_ShowsErrorMessage(t *testing.T) {
	store := state.NewStore()
	m := newTestModel(t, &fakeJobs{store: store})

	store.Begin("t1", "page.png", time.Now())
	store.Fail("t1", translator.KindNetwork, translator.MessageUnreachable)

	next, _ := m.Update(snapshotMsg(store.Snapshot()))
	m = next.(Model)
	if !strings.Contains(m.View(), translator.MessageUnreachable) {
		t.Fatalf("view missing error message")
	}
}

func TestThemeKey_CyclesAndPersists(t *testing.T) {
	m := newTestModel(t, &fakeJobs{store: state.NewStore()})

	m, _ = press(t, m, escKey, runes("T"))
	if m.theme.Name != "Paper" {
		t.Fatalf("theme = %q, want Paper", m.theme.Name)
	}
	p, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Paper" {
		t.Fatalf("saved theme = %q, want Paper", p.Theme)
	}
}

func TestHealthKey_ReportsStatus(t *testing.T) {
	checker := &fakeHealth{status: translator.HealthResponse{Status: "ok"}}
	m := New(Options{
		Jobs:      &fakeJobs{store: state.NewStore()},
		Health:    checker,
		Endpoint:  "http://svc:8000/translate-manga/",
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})

	m, cmd := press(t, m, escKey, runes("H"))
	if cmd == nil {
		t.Fatalf("expected health command")
	}
	msg := cmd()
	if checker.url != "http://svc:8000/health" {
		t.Fatalf("health url = %q, want http://svc:8000/health", checker.url)
	}
	next, _ := m.Update(msg)
	m = next.(Model)
	if m.noticeLevel != noticeSuccess || !strings.Contains(m.notice, "http://svc:8000/health") {
		t.Fatalf("notice = %q (%v), want success", m.notice, m.noticeLevel)
	}

	checker.err = &translator.Error{Op: "health", Kind: translator.KindNetwork, Message: "execute request"}
	next, _ = m.Update(healthCmd(context.Background(), checker, "http://svc:8000")())
	m = next.(Model)
	if m.noticeLevel != noticeDanger || !strings.Contains(m.notice, translator.MessageUnreachable) {
		t.Fatalf("notice = %q, want unreachable", m.notice)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, &fakeJobs{store: state.NewStore()})

	m, _ = press(t, m, runes("q"))
	if got := m.endpointInput.Value(); got != "http://svc:8000q" {
		t.Fatalf("endpoint = %q, want q typed into the field", got)
	}

	_, cmd := press(t, m, escKey, runes("q"))
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit from the results pane")
	}

	_, cmd = press(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c did not quit")
	}
}

func TestStateLabel(t *testing.T) {
	tests := map[state.JobState]string{
		state.Idle:       "Idle",
		state.Processing: "Processing",
		state.TimedOut:   "Timed Out",
		"":               "Idle",
	}
	for in, want := range tests {
		if got := stateLabel(in); got != want {
			t.Errorf("stateLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("  ", 10); got != "" {
		t.Fatalf("truncateMiddle blank = %q, want empty", got)
	}
	if got := truncateMiddle("abcd", 2); got != "ab" {
		t.Fatalf("truncateMiddle limit<=3 = %q, want ab", got)
	}
	got := truncateMiddle("http://example.com/translate-manga", 12)
	if len([]rune(got)) != 12 || !strings.Contains(got, "…") {
		t.Fatalf("truncateMiddle = %q, want 12 runes with ellipsis", got)
	}
}

func TestHumanizeDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{-time.Second, "under a second"},
		{12 * time.Second, "12s"},
		{75 * time.Second, "1m 15s"},
	}
	for _, tc := range cases {
		if got := humanizeDuration(tc.in); got != tc.want {
			t.Fatalf("humanizeDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Ink"); got != "Paper" {
		t.Fatalf("NextTheme(Ink) = %q, want Paper", got)
	}
	if got := NextTheme("Paper"); got != "Ink" {
		t.Fatalf("NextTheme(Paper) = %q, want Ink", got)
	}
	if got := NextTheme("unknown"); got != "Ink" {
		t.Fatalf("NextTheme(unknown) = %q, want Ink", got)
	}
	if got := GetTheme("missing").Name; got != "Ink" {
		t.Fatalf("GetTheme(missing) = %q, want Ink", got)
	}
}
