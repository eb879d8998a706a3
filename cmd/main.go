package main

import (
	"log"

	"github.com/leo-tosi/TDG/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatal(err)
	}
}
