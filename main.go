package main

import (
	"os"

	"roadmap-review/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
