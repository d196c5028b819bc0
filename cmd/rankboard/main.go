package main

import (
	"os"

	"github.com/wonny/rankboard/cmd/rankboard/commands"
)

// main is the entry point for the rankboard CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/rankboard [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
