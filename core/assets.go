package core

import (
	"bytes"
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Masterminds/sprig/v3"
	"github.com/russross/blackfriday/v2"
	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minjs "github.com/tdewolff/minify/v2/js"
)

var mediaTypes = map[string]string{
	".css": "text/css",
	".js":  "application/javascript",
}

// MinifyAsset minifies a /static/ css or js file into cacheDir/static and
// returns the versioned URL of the minified copy. Anything else, or any
// failure, returns path unchanged.
func MinifyAsset(env string, static fs.FS, path, cacheDir string) string {
	if env != "prod" {
		return path
	}

	ext := filepath.Ext(path)
	mediaType, ok := mediaTypes[ext]
	if !ok || !strings.HasPrefix(path, "/static/") {
		return path
	}

	rel := strings.TrimPrefix(path, "/static/")
	name := strings.TrimSuffix(rel, ext)
	if strings.HasSuffix(name, ".min") {
		return path
	}

	original, err := fs.ReadFile(static, rel)
	if err != nil {
		return path
	}

	m := minify.New()
	m.AddFunc("text/css", mincss.Minify)
	m.AddFunc("application/javascript", minjs.Minify)

	var buf bytes.Buffer
	if err := m.Minify(mediaType, &buf, bytes.NewReader(original)); err != nil {
		return path
	}
	minified := buf.Bytes()

	minRel := fmt.Sprintf("%s.min%s", name, ext)
	min := filepath.Join(cacheDir, "static", filepath.FromSlash(minRel))
	if err := os.MkdirAll(filepath.Dir(min), os.ModePerm); err != nil {
		return path
	}
	if err := os.WriteFile(min, minified, 0644); err != nil {
		return path
	}
	if err := writeGzip(min+".gz", minified); err != nil {
		return path
	}

	return fmt.Sprintf("/static/%s?v=%s", minRel, shortHash(minified))
}

func writeGzip(path string, data []byte) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(data); err != nil {
		return err
	}
	return gz.Close()
}

func shortHash(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])[:6]
}

// TemplateFuncs is sprig's function map plus the site helpers.
func TemplateFuncs(env string, static fs.FS, cacheDir string) template.FuncMap {
	funcs := sprig.FuncMap()

	var mu sync.Mutex
	minified := map[string]string{}
	funcs["minify"] = func(path string) string {
		mu.Lock()
		defer mu.Unlock()
		if out, ok := minified[path]; ok {
			return out
		}
		out := MinifyAsset(env, static, path, cacheDir)
		minified[path] = out
		return out
	}
	funcs["props"] = func(values ...interface{}) map[string]interface{} {
		if len(values)%2 != 0 {
			panic("props must be called with even number of arguments")
		}
		m := make(map[string]interface{}, len(values)/2)
		for i := 0; i < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				panic("props keys must be strings")
			}
			m[key] = values[i+1]
		}
		return m
	}
	funcs["safeHTML"] = func(s interface{}) template.HTML {
		switch val := s.(type) {
		case template.HTML:
			return val
		case string:
			return template.HTML(val)
		default:
			return ""
		}
	}
	// Only catalog text goes through markdown, never user input.
	funcs["markdown"] = func(s string) template.HTML {
		out := blackfriday.Run([]byte(s), blackfriday.WithExtensions(blackfriday.CommonExtensions))
		return template.HTML(bytes.TrimSpace(out))
	}
	funcs["versioned"] = func(path string) string {
		if !strings.HasPrefix(path, "/static/") {
			return path
		}

		rel := strings.TrimPrefix(path, "/static/")
		if content, err := os.ReadFile(filepath.Join(cacheDir, "static", filepath.FromSlash(rel))); err == nil {
			return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
		}
		if content, err := fs.ReadFile(static, rel); err == nil {
			return fmt.Sprintf("/static/%s?v=%s", rel, shortHash(content))
		}

		return path
	}

	return funcs
}
