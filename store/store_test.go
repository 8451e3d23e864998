package store

import (
	"testing"

	"cinema-cli/model"
	"cinema-cli/session"
)

func setTestConfigDir(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	t.Setenv("HOME", root)
	t.Setenv("XDG_CONFIG_HOME", root)
}

func TestSession_RoundTrip(t *testing.T) {
	setTestConfigDir(t)

	sess, err := LoadSession()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !sess.IsZero() {
		t.Fatalf("expected empty session, got %+v", sess)
	}

	want := session.Context{Token: "abc", UserId: 7, Name: "ana", Role: model.RoleAdmin}
	if err := SaveSession(want); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	got, err := LoadSession()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	if err := ClearSession(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got, err = LoadSession()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected session to be cleared, got %+v", got)
	}
}

func TestClearSession_MissingFile(t *testing.T) {
	setTestConfigDir(t)

	if err := ClearSession(); err != nil {
		t.Fatalf("expected nil error for missing session, got %v", err)
	}
}

func TestFiles_SatisfiesSessionStore(t *testing.T) {
	setTestConfigDir(t)

	var st session.Store = Files{}
	if err := st.SaveSession(session.Context{Token: "t", UserId: 1}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got, err := st.LoadSession()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.UserId != 1 || got.Token != "t" {
		t.Fatalf("unexpected session: %+v", got)
	}
}

func TestRememberLookup_DedupesAndOrders(t *testing.T) {
	setTestConfigDir(t)

	if err := RememberLookup(model.BookingLookup{Name: "Ana"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := RememberLookup(model.BookingLookup{Phone: "01234567890"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if err := RememberLookup(model.BookingLookup{Name: "ana"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	lookups, err := LoadRecentLookups()
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(lookups) != 2 {
		t.Fatalf("expected 2 lookups, got %+v", lookups)
	}
	if lookups[0].Name != "ana" || lookups[1].Phone != "01234567890" {
		t.Fatalf("unexpected order: %+v", lookups)
	}
}

func TestRememberLookup_InvalidInput(t *testing.T) {
	setTestConfigDir(t)

	if err := RememberLookup(model.BookingLookup{Name: " "}); err == nil {
		t.Fatal("expected error for empty lookup")
	}
}
