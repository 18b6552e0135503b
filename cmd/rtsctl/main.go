package main

import (
	"os"

	"github.com/1siamBot/rts-engine/cmd/rtsctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
