package core

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCookie = "nimbus_session"
	flashTTL      = 10 * time.Minute
)

// Flash carries a message from one request to the next one from the same
// client. TakeOnce clears it.
type Flash interface {
	SetOnce(msg string)
	TakeOnce() (string, bool)
}

type flashEntry struct {
	msg string
	at  time.Time
}

type FlashStore struct {
	mu      sync.Mutex
	pending map[string]flashEntry
	now     func() time.Time
}

func NewFlashStore() *FlashStore {
	return &FlashStore{
		pending: make(map[string]flashEntry),
		now:     time.Now,
	}
}

// For binds the store to one request/response pair.
func (s *FlashStore) For(w http.ResponseWriter, r *http.Request) Flash {
	return &requestFlash{store: s, w: w, r: r}
}

func (s *FlashStore) set(id, msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, e := range s.pending {
		if now.Sub(e.at) > flashTTL {
			delete(s.pending, k)
		}
	}
	s.pending[id] = flashEntry{msg: msg, at: now}
}

func (s *FlashStore) take(id string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.pending[id]
	if !ok {
		return "", false
	}
	delete(s.pending, id)
	if s.now().Sub(e.at) > flashTTL {
		return "", false
	}
	return e.msg, true
}

func (s *FlashStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

type requestFlash struct {
	store *FlashStore
	w     http.ResponseWriter
	r     *http.Request
}

func (f *requestFlash) SetOnce(msg string) {
	id := f.sessionID()
	if id == "" {
		id = uuid.NewString()
		http.SetCookie(f.w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	f.store.set(id, msg)
}

func (f *requestFlash) TakeOnce() (string, bool) {
	id := f.sessionID()
	if id == "" {
		return "", false
	}
	return f.store.take(id)
}

func (f *requestFlash) sessionID() string {
	c, err := f.r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}
