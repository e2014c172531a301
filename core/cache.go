package core

import (
	"os"
	"path/filepath"
	"strings"
)

// CacheKey maps a route path to its directory under OutputDir.
func CacheKey(routePath string) string {
	key := strings.Trim(routePath, "/")
	if key == "" {
		return "index"
	}
	return key
}

func GetCachedHTML(config Config, route string) ([]byte, bool) {
	cachePath := filepath.Join(config.OutputDir, route, "index.html")

	content, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, false
	}

	return content, true
}

func GetCachedGzip(config Config, route string) ([]byte, bool) {
	content, err := os.ReadFile(filepath.Join(config.OutputDir, route, "index.html.gz"))
	if err != nil {
		return nil, false
	}
	return content, true
}

func SaveCachedHTML(config Config, routeKey string, html []byte) error {
	outDir := filepath.Join(config.OutputDir, routeKey)
	if err := os.MkdirAll(outDir, os.ModePerm); err != nil {
		return err
	}

	htmlPath := filepath.Join(outDir, "index.html")
	if err := os.WriteFile(htmlPath, html, 0644); err != nil {
		return err
	}

	return writeGzip(htmlPath+".gz", html)
}
