package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nimbus-portfolio/nimbus/core"
	"github.com/segmentio/encoding/json"
	"github.com/urfave/cli/v2"
)

type routeInfo struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Page      string `json:"page,omitempty"`
	Cacheable bool   `json:"cacheable"`
}

type siteInfo struct {
	OutputDir    string      `json:"outputDir"`
	CacheEnabled bool        `json:"cache"`
	DebugHeaders bool        `json:"debugHeaders"`
	DebugLogs    bool        `json:"debugLogs"`
	Routes       []routeInfo `json:"routes"`
	Topics       []string    `json:"topics"`
	CachedPages  int         `json:"cachedPages"`
}

var InfoCommand = &cli.Command{
	Name:  "info",
	Usage: "Print config, route table and cache summary",
	Flags: []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "print the summary as JSON"},
	},
	Action: func(c *cli.Context) error {
		info, err := collectInfo(core.LoadConfig(core.ConfigFile))
		if err != nil {
			return err
		}

		if c.Bool("json") {
			out, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding info: %w", err)
			}
			fmt.Println(string(out))
			return nil
		}

		fmt.Println("📁 Output Directory:", info.OutputDir)
		fmt.Println("🔁 Cache Enabled:", info.CacheEnabled)
		fmt.Println("🔁 Debug Headers Enabled:", info.DebugHeaders)
		fmt.Println("🔁 Debug Logs Enabled:", info.DebugLogs)
		fmt.Println()

		fmt.Println("🗂️  Routes Found:", len(info.Routes))
		for _, route := range info.Routes {
			page := route.Page
			if page == "" {
				page = "-"
			}
			cached := ""
			if route.Cacheable {
				cached = " (cacheable)"
			}
			fmt.Printf("   %-5s %-12s %s%s\n", route.Method, route.Path, page, cached)
		}

		fmt.Println("📚 Topics:", len(info.Topics))
		fmt.Println("💾 Cached Pages:", info.CachedPages)

		return nil
	},
}

func collectInfo(config *core.Config) (siteInfo, error) {
	router, err := core.New(*config, core.RuntimeContext{Env: "dev"})
	if err != nil {
		return siteInfo{}, fmt.Errorf("loading site: %w", err)
	}
	defer router.Close()

	info := siteInfo{
		OutputDir:    config.OutputDir,
		CacheEnabled: config.CacheEnabled,
		DebugHeaders: config.DebugHeaders,
		DebugLogs:    config.DebugLogs,
	}

	for _, route := range router.Routes() {
		info.Routes = append(info.Routes, routeInfo{
			Method:    route.Method,
			Path:      route.Path,
			Page:      route.Page,
			Cacheable: route.Cacheable,
		})
	}
	for _, topic := range router.Catalog().All() {
		info.Topics = append(info.Topics, topic.ShortTitle)
	}

	filepath.Walk(config.OutputDir, func(path string, fi os.FileInfo, err error) error {
		if err == nil && !fi.IsDir() && strings.HasSuffix(path, ".html") {
			info.CachedPages++
		}
		return nil
	})

	return info, nil
}
