package main

import (
	"log"
	"os"

	nimbuscli "github.com/nimbus-portfolio/nimbus/cli"
	clilib "github.com/urfave/cli/v2"
)

func runApp(args []string) error {
	app := &clilib.App{
		Name:  "nimbus",
		Usage: "Portfolio site: tutorial pages, a data structures guide and a contact form",
		Commands: []*clilib.Command{
			nimbuscli.DevCommand,
			nimbuscli.ProdCommand,
			nimbuscli.CleanCommand,
			nimbuscli.CheckCommand,
			nimbuscli.InfoCommand,
		},
	}
	return app.Run(args)
}

func main() {
	if err := runApp(os.Args); err != nil {
		log.Fatal(err)
	}
}
