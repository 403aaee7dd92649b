package main

import (
	"github.com/movekit-lab/movekit/command/root"
)

func main() {
	root.NewRootCommand().Execute()
}
