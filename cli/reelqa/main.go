package main

import (
	"os"

	reelqacmder "github.com/reelstack/reelqa/cmd/reelqa"
)

func main() {
	cmd := reelqacmder.NewReelQACmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
