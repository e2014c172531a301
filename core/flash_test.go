package core

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func sessionCookieFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("expected %s cookie to be set", SessionCookie)
	return nil
}

func TestFlash_SetThenTakeOnce(t *testing.T) {
	store := NewFlashStore()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	store.For(rec, req).SetOnce("hello")

	cookie := sessionCookieFrom(t, rec)
	if !cookie.HttpOnly {
		t.Error("expected session cookie to be HttpOnly")
	}

	next := httptest.NewRequest(http.MethodGet, "/contact", nil)
	next.AddCookie(cookie)

	msg, ok := store.For(httptest.NewRecorder(), next).TakeOnce()
	if !ok || msg != "hello" {
		t.Fatalf("expected flash 'hello', got %q (ok=%v)", msg, ok)
	}

	again := httptest.NewRequest(http.MethodGet, "/contact", nil)
	again.AddCookie(cookie)
	if msg, ok := store.For(httptest.NewRecorder(), again).TakeOnce(); ok {
		t.Errorf("expected flash to be gone, got %q", msg)
	}
}

func TestFlash_TakeWithoutCookie(t *testing.T) {
	store := NewFlashStore()
	req := httptest.NewRequest(http.MethodGet, "/contact", nil)

	if _, ok := store.For(httptest.NewRecorder(), req).TakeOnce(); ok {
		t.Error("expected no flash without a session cookie")
	}
}

func TestFlash_IgnoresForgedCookie(t *testing.T) {
	store := NewFlashStore()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})
	store.For(rec, req).SetOnce("hi")

	cookie := sessionCookieFrom(t, rec)
	if cookie.Value == "not-a-uuid" {
		t.Error("expected a fresh session id to replace the forged one")
	}
}

func TestFlash_ReusesExistingSession(t *testing.T) {
	store := NewFlashStore()

	first := httptest.NewRecorder()
	store.For(first, httptest.NewRequest(http.MethodPost, "/contact", nil)).SetOnce("one")
	cookie := sessionCookieFrom(t, first)

	second := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/contact", nil)
	req.AddCookie(cookie)
	store.For(second, req).SetOnce("two")

	if len(second.Result().Cookies()) != 0 {
		t.Error("expected no new cookie for an existing session")
	}
	if store.Len() != 1 {
		t.Errorf("expected one pending flash, got %d", store.Len())
	}

	read := httptest.NewRequest(http.MethodGet, "/contact", nil)
	read.AddCookie(cookie)
	if msg, _ := store.For(httptest.NewRecorder(), read).TakeOnce(); msg != "two" {
		t.Errorf("expected latest flash 'two', got %q", msg)
	}
}

func TestFlash_ExpiredEntriesArePruned(t *testing.T) {
	store := NewFlashStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	store.For(rec, httptest.NewRequest(http.MethodPost, "/contact", nil)).SetOnce("stale")
	stale := sessionCookieFrom(t, rec)

	now = now.Add(flashTTL + time.Second)

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	req.AddCookie(stale)
	if _, ok := store.For(httptest.NewRecorder(), req).TakeOnce(); ok {
		t.Error("expected expired flash to be dropped")
	}

	store.For(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/contact", nil)).SetOnce("old")
	now = now.Add(flashTTL + time.Second)
	store.For(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/contact", nil)).SetOnce("fresh")

	if store.Len() != 1 {
		t.Errorf("expected stale entries pruned on set, got %d pending", store.Len())
	}
}
