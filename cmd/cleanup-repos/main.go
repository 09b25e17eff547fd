package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	return &cli.App{
		Name:      "cleanup-repos",
		Usage:     "find stale repositories of a github organization and archive them",
		ArgsUsage: "[apply]",
		Description: "Without arguments the stale repositories are only reported. " +
			"Pass apply to archive them.",
		Flags:  cleanupFlags(),
		Action: cleanupAction,
	}
}

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
