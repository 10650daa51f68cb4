package main

import (
	"fmt"
	"os"

	"github.com/hollis-dev/attic/internal/mcp"
)

func main() {
	serverURL := os.Getenv("ATTIC_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8741"
	}

	server := mcp.NewServer(serverURL, os.Getenv("ATTIC_API_KEY"))
	if err := server.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "mcp server error: %s\n", err)
		os.Exit(1)
	}
}
