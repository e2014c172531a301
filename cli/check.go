package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/nimbus-portfolio/nimbus/core"
	"github.com/urfave/cli/v2"
)

var CheckCommand = &cli.Command{
	Name:  "check",
	Usage: "Validate the topic catalog and render every page",
	Action: func(c *cli.Context) error {
		config := core.LoadConfig(core.ConfigFile)
		config.CacheEnabled = false

		router, err := core.New(*config, core.RuntimeContext{Env: "dev"})
		if err != nil {
			fmt.Printf("❌ startup → %v\n", err)
			return cli.Exit("site failed to load", 1)
		}
		defer router.Close()

		fmt.Printf("✅ catalog → %d topics\n", router.Catalog().Len())

		var failed bool
		for _, route := range router.Routes() {
			if route.Method != http.MethodGet {
				continue
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, route.Path, nil))

			if rec.Code != http.StatusOK {
				failed = true
				fmt.Printf("❌ %s → %d %s\n", route.Path, rec.Code, http.StatusText(rec.Code))
				continue
			}
			fmt.Printf("✅ %s\n", route.Path)
		}

		if failed {
			return cli.Exit("some pages failed to render", 1)
		}

		fmt.Println("✅ All templates validated successfully.")
		return nil
	},
}
