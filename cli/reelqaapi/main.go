package main

import (
	"os"

	servecmder "github.com/reelstack/reelqa/cmd/reelqa/serve"
)

func main() {
	cmd := servecmder.NewServeCmd()
	cmd.Use = "reelqaapi"
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override the .reelqa/ config directory")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
