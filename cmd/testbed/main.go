package main

import (
	"os"

	"github.com/arthur-debert/testbed/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
