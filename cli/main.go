package main

import (
	"github.com/componentschema/componentschema/cli/cmd"
)

func main() {
	cmd.Execute()
}
