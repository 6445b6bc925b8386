package main

import (
	"github.com/bnema/visited/internal/cli/cmd"
)

func main() {
	cmd.Execute()
}
