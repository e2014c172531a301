package core

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	LiveReloadPath    = "/__nimbus_reload"
	reloadWriteWindow = time.Second
)

type LiveReloaderInterface interface {
	BroadcastReload()
	Handler(http.ResponseWriter, *http.Request)
	Clients() int
}

// LiveReloader pushes "reload" to every connected dev browser tab.
type LiveReloader struct {
	clients  map[*websocket.Conn]struct{}
	lock     sync.Mutex
	upgrader websocket.Upgrader
	log      *zap.Logger
}

var NewLiveReloader = func(log *zap.Logger) LiveReloaderInterface {
	if log == nil {
		log = zap.NewNop()
	}
	// zero CheckOrigin keeps gorilla's same-origin check
	return &LiveReloader{
		clients: make(map[*websocket.Conn]struct{}),
		log:     log,
	}
}

func (lr *LiveReloader) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		lr.log.Debug("live reload upgrade failed", zap.Error(err))
		return
	}

	lr.lock.Lock()
	lr.clients[conn] = struct{}{}
	lr.lock.Unlock()

	go func() {
		defer lr.drop(conn)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()
}

func (lr *LiveReloader) drop(conn *websocket.Conn) {
	lr.lock.Lock()
	delete(lr.clients, conn)
	lr.lock.Unlock()
	conn.Close()
}

func (lr *LiveReloader) BroadcastReload() {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	for conn := range lr.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(reloadWriteWindow))
		if err := conn.WriteMessage(websocket.TextMessage, []byte("reload")); err != nil {
			conn.Close()
			delete(lr.clients, conn)
		}
	}
	lr.log.Debug("live reload broadcast", zap.Int("clients", len(lr.clients)))
}

func (lr *LiveReloader) Clients() int {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	return len(lr.clients)
}
