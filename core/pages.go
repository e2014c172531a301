package core

import (
	"net/http"

	"go.uber.org/zap"
)

const maxContactBody = 64 << 10

type NavItem struct {
	Path   string
	Label  string
	Active bool
}

type PageData struct {
	Title      string
	Path       string
	Env        string
	LiveReload bool
	Nav        []NavItem
	Flash      string
	Topics     []Topic
}

var navigation = []NavItem{
	{Path: "/", Label: "About"},
	{Path: "/selenium", Label: "Selenium"},
	{Path: "/playwright", Label: "Playwright"},
	{Path: "/docker", Label: "Docker"},
	{Path: "/pytest", Label: "Pytest"},
	{Path: "/dsa", Label: "Data Structures"},
	{Path: "/contact", Label: "Contact"},
}

func navFor(path string) []NavItem {
	items := make([]NavItem, len(navigation))
	for i, item := range navigation {
		item.Active = item.Path == path
		items[i] = item
	}
	return items
}

func (r *Router) routeTable() []Route {
	get := http.MethodGet
	return []Route{
		{Method: get, Path: "/", Page: "index", Title: "About", Cacheable: true, Handler: renderPage},
		{Method: get, Path: "/selenium", Page: "selenium", Title: "Selenium", Cacheable: true, Handler: renderPage},
		{Method: get, Path: "/playwright", Page: "playwright", Title: "Playwright", Cacheable: true, Handler: renderPage},
		{Method: get, Path: "/docker", Page: "docker", Title: "Docker", Cacheable: true, Handler: renderPage},
		{Method: get, Path: "/pytest", Page: "pytest", Title: "Pytest", Cacheable: true, Handler: renderPage},
		{Method: get, Path: "/dsa", Page: "dsa", Title: "Data Structures", Cacheable: true, Handler: r.topics},
		{Method: get, Path: "/contact", Page: "contact", Title: "Contact", Handler: contactForm},
		{Method: http.MethodPost, Path: "/contact", Handler: contactSubmit},
	}
}

func renderPage(c *Context) error {
	return c.Render(PageData{})
}

func (r *Router) topics(c *Context) error {
	return c.Render(PageData{Topics: r.catalog.All()})
}

func contactForm(c *Context) error {
	// the page may carry a flash, so it is never stored
	c.W.Header().Set("Cache-Control", "no-store")
	var msg string
	if c.R.Method != http.MethodHead {
		msg, _ = c.Flash.TakeOnce()
	}
	return c.Render(PageData{Flash: msg})
}

func contactSubmit(c *Context) error {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, maxContactBody)

	sub, err := ParseContact(c.R)
	if err != nil {
		return err
	}

	c.Log.Info(sub.String(), zap.String("name", sub.Name), zap.String("email", sub.Email))
	c.Flash.SetOnce(ContactAck)
	http.Redirect(c.W, c.R, "/contact", http.StatusFound)
	return nil
}
