package main

import (
	"os"

	"github.com/querybridge/querybridge/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
