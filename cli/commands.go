package cli

import (
	"github.com/nimbus-portfolio/nimbus"

	"github.com/urfave/cli/v2"
)

const defaultPort = 8080

var portFlag = &cli.IntFlag{
	Name:    "port",
	Usage:   "port to listen on",
	EnvVars: []string{"PORT"},
	Value:   defaultPort,
}

var DevCommand = &cli.Command{
	Name:  "dev",
	Usage: "Start Nimbus in dev mode (no caching, live reload)",
	Flags: []cli.Flag{portFlag},
	Action: func(c *cli.Context) error {
		cfg := nimbus.RuntimeConfig{
			Env:         "dev",
			EnableCache: false,
			Port:        c.Int("port"),
		}
		return nimbus.Start(cfg)
	},
}

var ProdCommand = &cli.Command{
	Name:  "prod",
	Usage: "Start Nimbus in production mode (caching on by default)",
	Flags: []cli.Flag{
		portFlag,
		&cli.BoolFlag{
			Name:  "cache",
			Usage: "cache rendered pages under outputDir",
			Value: true,
		},
	},
	Action: func(c *cli.Context) error {
		cfg := nimbus.RuntimeConfig{
			Env:         "prod",
			EnableCache: c.Bool("cache"),
			Port:        c.Int("port"),
		}
		return nimbus.Start(cfg)
	},
}
