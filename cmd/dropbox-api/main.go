package main

import (
	"os"

	"github.com/gitpan/App-dropboxapi/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
