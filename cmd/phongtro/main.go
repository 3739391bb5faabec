package main

import (
	"fmt"
	"os"

	"github.com/phongtro/phongtro/cmd/phongtro/commands"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	if err := commands.Execute(Version); err != nil {
		fmt.Fprintf(os.Stderr, "Lỗi: %v\n", err)
		os.Exit(1)
	}
}
