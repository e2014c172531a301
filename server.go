package nimbus

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/nimbus-portfolio/nimbus/core"
	"go.uber.org/zap"
)

const immutableCache = "public, max-age=31536000, immutable"

type RuntimeConfig struct {
	Env         string
	EnableCache bool
	Port        int
	Logger      *zap.Logger
}

var ListenAndServe = http.ListenAndServe

var Start = func(cfg RuntimeConfig) error {
	fmt.Println("Starting Nimbus in", cfg.Env, "mode...")

	addr, handler, closer, err := BuildServer(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	fmt.Printf("✅ Nimbus running at http://localhost%s\n", addr)
	return ListenAndServe(addr, handler)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// BuildServer wires the mux for cfg. The returned closer releases what the
// router holds open, such as the dev template watcher.
func BuildServer(cfg RuntimeConfig) (string, http.Handler, io.Closer, error) {
	config := core.LoadConfig(core.ConfigFile)
	config.CacheEnabled = cfg.EnableCache

	log := cfg.Logger
	if log == nil {
		var err error
		log, err = core.NewLogger(cfg.Env, config.DebugLogs)
		if err != nil {
			return "", nil, nil, fmt.Errorf("building logger: %w", err)
		}
	}

	mux := http.NewServeMux()
	static := core.StaticFS(*config, cfg.Env)
	ctx := core.RuntimeContext{Env: cfg.Env, Logger: log}

	if cfg.Env == "dev" {
		setupDevStaticRoutes(mux, static)

		reloader := core.NewLiveReloader(log)
		mux.HandleFunc(core.LiveReloadPath, reloader.Handler)
		ctx.EnableWatch = true
		ctx.OnReload = reloader.BroadcastReload
	} else {
		mux.Handle("/static/", makeStaticHandler(static, filepath.Join(config.OutputDir, "static")))
		mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
			serveFSWithHeaders(w, r, static, "robots.txt", immutableCache)
		})
	}

	router, err := core.NewRouter(*config, ctx)
	if err != nil {
		return "", nil, nil, fmt.Errorf("building router: %w", err)
	}
	mux.Handle("/", router)

	closer := io.Closer(closerFunc(func() error { return nil }))
	if c, ok := router.(io.Closer); ok {
		closer = c
	}

	log.Info("server configured",
		zap.String("env", cfg.Env),
		zap.Int("port", cfg.Port),
		zap.Bool("cache", config.CacheEnabled))

	return fmt.Sprintf(":%d", cfg.Port), mux, closer, nil
}

func setupDevStaticRoutes(mux *http.ServeMux, static fs.FS) {
	files := http.FileServerFS(static)
	mux.Handle("/static/", http.StripPrefix("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		files.ServeHTTP(w, r)
	})))

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		serveFSWithHeaders(w, r, static, "robots.txt", "no-store")
	})
}

// makeStaticHandler serves /static/ from the minified cache first, gzip
// when the client takes it, then falls back to the source assets.
func makeStaticHandler(static fs.FS, cacheDir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rel := strings.TrimPrefix(r.URL.Path, "/static/")
		if strings.Contains(rel, "..") {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		cachedFile := filepath.Join(cacheDir, filepath.FromSlash(rel))
		if acceptsGzip(r) && fileExists(cachedFile+".gz") {
			w.Header().Set("Content-Type", detectMimeType(cachedFile))
			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Set("Vary", "Accept-Encoding")
			serveFileWithHeaders(w, r, cachedFile+".gz", immutableCache)
			return
		}

		if fileExists(cachedFile) {
			serveFileWithHeaders(w, r, cachedFile, immutableCache)
			return
		}

		if _, err := fs.Stat(static, rel); err == nil && rel != "" {
			serveFSWithHeaders(w, r, static, rel, immutableCache)
			return
		}

		http.NotFound(w, r)
	})
}

func serveFileWithHeaders(w http.ResponseWriter, r *http.Request, filePath, cacheControl string) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", detectMimeType(filePath))
	}
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFile(w, r, filePath)
}

func serveFSWithHeaders(w http.ResponseWriter, r *http.Request, fsys fs.FS, name, cacheControl string) {
	if _, err := fs.Stat(fsys, name); err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", detectMimeType(name))
	w.Header().Set("Cache-Control", cacheControl)
	http.ServeFileFS(w, r, fsys, name)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func detectMimeType(filename string) string {
	switch path.Ext(filepath.ToSlash(filename)) {
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".webp":
		return "image/webp"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".woff":
		return "font/woff"
	case ".woff2":
		return "font/woff2"
	case ".txt":
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}
