package main

import (
	"os"

	quorumcmder "github.com/quorumchat/quorum/cmd/quorum"
)

func main() {
	cmd := quorumcmder.NewQuorumCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
