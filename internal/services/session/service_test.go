package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/j-veylop/biliinsight-tui/internal/models"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	sessionPath := filepath.Join(t.TempDir(), "session.json")

	svc, err := New(sessionPath)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	t.Cleanup(func() {
		if err := svc.Close(); err != nil {
			t.Logf("Close() failed: %v", err)
		}
	})

	return svc, sessionPath
}

func testSession(sessdata string) models.Session {
	return models.NewSession([]models.Cookie{
		{Name: "SESSDATA", Value: sessdata},
		{Name: "DedeUserID", Value: "42"},
	}, "refresh", time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC))
}

// waitFor drains events until one of the wanted type arrives.
func waitFor(t *testing.T, svc *Service, want EventType) Event {
	t.Helper()

	timeout := time.After(2 * time.Second)
	for {
		select {
		case event := <-svc.Events():
			if event.Type == want {
				return event
			}
		case <-timeout:
			t.Fatalf("timed out waiting for event %d", want)
			return Event{}
		}
	}
}

func TestNew_NoFile(t *testing.T) {
	svc, _ := newTestService(t)

	event := <-svc.Events()
	if event.Type != EventSessionLoaded {
		t.Errorf("first event = %d, want EventSessionLoaded", event.Type)
	}
	if svc.Current() != nil || svc.User() != nil {
		t.Error("expected no session without a file")
	}
}

func TestNew_EmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty path")
	}
}

func TestSaveAndReload(t *testing.T) {
	svc, path := newTestService(t)

	user := &models.UserInfo{MID: 42, UName: "viewer", IsLogin: true}
	if err := svc.Save(testSession("abc"), user); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file missing: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	reloaded, err := New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() {
		_ = reloaded.Close()
	}()

	got := reloaded.Current()
	if got == nil || got.Cookie("SESSDATA") != "abc" || got.MID != 42 || got.RefreshToken != "refresh" {
		t.Errorf("unexpected reloaded session: %+v", got)
	}
	if u := reloaded.User(); u == nil || u.UName != "viewer" {
		t.Errorf("unexpected reloaded user: %+v", u)
	}
}

func TestSave_RejectsInvalid(t *testing.T) {
	svc, path := newTestService(t)

	if err := svc.Save(models.Session{}, nil); err == nil {
		t.Fatal("expected error for session without SESSDATA")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid session should not be written")
	}
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	svc, _ := newTestService(t)
	if err := svc.Save(testSession("abc"), nil); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	got := svc.Current()
	got.Cookies[0].Value = "mutated"

	if svc.Current().Cookie("SESSDATA") != "abc" {
		t.Error("Current() leaked internal state")
	}
}

func TestSetUser(t *testing.T) {
	svc, _ := newTestService(t)

	if err := svc.SetUser(models.UserInfo{UName: "x"}); err == nil {
		t.Error("expected error without a session")
	}

	if err := svc.Save(testSession("abc"), nil); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	if err := svc.SetUser(models.UserInfo{UName: "viewer"}); err != nil {
		t.Fatalf("SetUser() failed: %v", err)
	}
	if u := svc.User(); u == nil || u.UName != "viewer" {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestClear(t *testing.T) {
	svc, path := newTestService(t)
	if err := svc.Save(testSession("abc"), nil); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	if err := svc.Clear(); err != nil {
		t.Fatalf("Clear() failed: %v", err)
	}
	if svc.Current() != nil {
		t.Error("session should be gone after Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("session file should be removed")
	}
	waitFor(t, svc, EventSessionCleared)

	// Clearing twice is harmless.
	if err := svc.Clear(); err != nil {
		t.Errorf("second Clear() failed: %v", err)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := New(path); err == nil {
		t.Error("expected error for malformed session file")
	}
}

func TestLoad_DropsSessionWithoutCredentials(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	data, _ := json.Marshal(File{Session: &models.Session{MID: 1}, Version: 1})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	svc, err := New(path)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer func() {
		_ = svc.Close()
	}()

	if svc.Current() != nil {
		t.Error("session without SESSDATA should be ignored")
	}
}

func TestWatchExternalLogin(t *testing.T) {
	svc, path := newTestService(t)
	<-svc.Events()

	sess := testSession("external")
	data, _ := json.Marshal(File{Session: &sess, Version: 1})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	event := waitFor(t, svc, EventSessionChanged)
	if event.Session == nil || event.Session.Cookie("SESSDATA") != "external" {
		t.Errorf("unexpected event session: %+v", event.Session)
	}
	if svc.Current().Cookie("SESSDATA") != "external" {
		t.Error("store did not pick up the external session")
	}
}

func TestWatchExternalLogout(t *testing.T) {
	svc, path := newTestService(t)
	if err := svc.Save(testSession("abc"), nil); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	waitFor(t, svc, EventSessionChanged)

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	waitFor(t, svc, EventSessionCleared)
	if svc.Current() != nil {
		t.Error("store should be logged out after external removal")
	}
}

func TestSendEvent_Full(t *testing.T) {
	svc, _ := newTestService(t)

	for range 150 {
		svc.sendEvent(Event{Type: EventError})
	}

	if len(svc.Events()) != 100 {
		t.Errorf("expected 100 events, got %d", len(svc.Events()))
	}
}
