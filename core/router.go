package core

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"github.com/nimbus-portfolio/nimbus/web"
	"go.uber.org/zap"
)

type RuntimeContext struct {
	Env         string
	EnableWatch bool
	OnReload    func()
	Logger      *zap.Logger

	// Templates and Static override where pages and assets are read from.
	Templates fs.FS
	Static    fs.FS
}

type HandlerFunc func(c *Context) error

type Route struct {
	Method    string
	Path      string
	Page      string
	Title     string
	Cacheable bool
	Handler   HandlerFunc
}

type Router struct {
	config   Config
	env      string
	log      *zap.Logger
	renderer *Renderer
	catalog  *Catalog
	flashes  *FlashStore
	watcher  *TemplateWatcher
	routes   []Route
	byPath   map[string][]Route
}

var NewRouter = func(config Config, ctx RuntimeContext) (http.Handler, error) {
	r, err := New(config, ctx)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func New(config Config, ctx RuntimeContext) (*Router, error) {
	log := ctx.Logger
	if log == nil {
		log = zap.NewNop()
	}

	catalog, err := DefaultCatalog()
	if err != nil {
		return nil, err
	}

	templates := ctx.Templates
	if templates == nil {
		templates = TemplatesFS(config, ctx.Env)
	}
	static := ctx.Static
	if static == nil {
		static = StaticFS(config, ctx.Env)
	}

	renderer, err := NewRenderer(templates, TemplateFuncs(ctx.Env, static, config.OutputDir))
	if err != nil {
		return nil, err
	}

	r := &Router{
		config:   config,
		env:      ctx.Env,
		log:      log,
		renderer: renderer,
		catalog:  catalog,
		flashes:  NewFlashStore(),
		byPath:   map[string][]Route{},
	}
	r.routes = r.routeTable()
	for _, route := range r.routes {
		if route.Page != "" && !renderer.Has(route.Page) {
			return nil, fmt.Errorf("route %s %s: template %q: %w", route.Method, route.Path, route.Page, ErrNotFound)
		}
		r.byPath[route.Path] = append(r.byPath[route.Path], route)
	}

	if ctx.EnableWatch && ctx.Templates == nil && isDir(config.TemplatesDir) {
		r.watcher, err = WatchTemplates(config.TemplatesDir, func() {
			if err := r.renderer.Reload(); err != nil {
				log.Warn("template reload failed", zap.Error(err))
				return
			}
			log.Info("templates reloaded", zap.String("dir", config.TemplatesDir))
			if ctx.OnReload != nil {
				ctx.OnReload()
			}
		}, log)
		if err != nil {
			return nil, err
		}
	}

	return r, nil
}

// TemplatesFS prefers the on-disk templates in dev so edits show up
// without a rebuild.
func TemplatesFS(config Config, env string) fs.FS {
	if env == "dev" && isDir(config.TemplatesDir) {
		return os.DirFS(config.TemplatesDir)
	}
	return web.Templates()
}

func StaticFS(config Config, env string) fs.FS {
	if env == "dev" && isDir(config.PublicDir) {
		return os.DirFS(config.PublicDir)
	}
	return web.Static()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

func (r *Router) Catalog() *Catalog {
	return r.catalog
}

func (r *Router) Renderer() *Renderer {
	return r.renderer
}

func (r *Router) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.log.Debug("request", zap.String("method", req.Method), zap.String("path", req.URL.Path))

	candidates, ok := r.byPath[req.URL.Path]
	if !ok {
		http.NotFound(w, req)
		return
	}

	var route *Route
	allowed := make([]string, 0, len(candidates))
	for i := range candidates {
		allowed = append(allowed, candidates[i].Method)
		if matchesMethod(candidates[i].Method, req.Method) {
			route = &candidates[i]
		}
	}
	if route == nil {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	c := &Context{
		W:      w,
		R:      req,
		Route:  *route,
		Flash:  r.flashes.For(w, req),
		Log:    r.log,
		router: r,
	}

	var err error
	if route.Cacheable && r.env == "prod" && r.config.CacheEnabled {
		err = r.serveCached(c)
	} else {
		err = route.Handler(c)
	}
	if err != nil {
		r.fail(w, req, err)
	}
}

func matchesMethod(routeMethod, reqMethod string) bool {
	return routeMethod == reqMethod || (routeMethod == http.MethodGet && reqMethod == http.MethodHead)
}

func (r *Router) fail(w http.ResponseWriter, req *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
	} else {
		r.log.Debug("request rejected", zap.String("path", req.URL.Path), zap.Int("status", status), zap.Error(err))
	}

	msg := http.StatusText(status)
	if status < http.StatusInternalServerError || r.env == "dev" {
		msg += ": " + err.Error()
	}
	http.Error(w, msg, status)
}

// serveCached answers from OutputDir when a rendered copy exists, and
// otherwise renders once and stores the result.
func (r *Router) serveCached(c *Context) error {
	key := CacheKey(c.Route.Path)
	c.W.Header().Set("Content-Type", "text/html; charset=utf-8")

	if acceptsGzip(c.R) {
		if gz, ok := GetCachedGzip(r.config, key); ok {
			c.W.Header().Set("Content-Encoding", "gzip")
			c.W.Header().Set("Vary", "Accept-Encoding")
			_, err := c.W.Write(gz)
			return err
		}
	}
	if html, ok := GetCachedHTML(r.config, key); ok {
		_, err := c.W.Write(html)
		return err
	}

	w := c.W
	capture := &captureWriter{ResponseWriter: w}
	c.W = capture
	if err := c.Route.Handler(c); err != nil {
		return err
	}

	status := capture.status
	if status == 0 {
		status = http.StatusOK
	}
	if status == http.StatusOK {
		if err := SaveCachedHTML(r.config, key, capture.buf.Bytes()); err != nil {
			r.log.Warn("caching page failed", zap.String("key", key), zap.Error(err))
		}
	}

	w.WriteHeader(status)
	_, err := w.Write(capture.buf.Bytes())
	return err
}

func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept-Encoding"), "gzip")
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (c *captureWriter) WriteHeader(status int) {
	if c.status == 0 {
		c.status = status
	}
}

func (c *captureWriter) Write(b []byte) (int, error) {
	if c.status == 0 {
		c.status = http.StatusOK
	}
	return c.buf.Write(b)
}

// Context is what a route handler sees of the request.
type Context struct {
	W     http.ResponseWriter
	R     *http.Request
	Route Route
	Flash Flash
	Log   *zap.Logger

	router *Router
}

func (c *Context) Render(data PageData) error {
	r := c.router
	data.Title = c.Route.Title
	data.Path = c.Route.Path
	data.Env = r.env
	data.LiveReload = r.watcher != nil
	data.Nav = navFor(c.Route.Path)

	h := c.W.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	if r.config.DebugHeaders {
		h.Set("X-Nimbus-Route", c.Route.Page)
	}

	err := r.renderer.Render(c.W, c.Route.Page, data)
	if errors.Is(err, ErrNotFound) {
		// missing page for a registered route
		return &HTTPError{Status: http.StatusInternalServerError, Err: err}
	}
	return err
}
