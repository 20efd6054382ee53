// Package main provides the StateGraph CLI application.
package main

import (
	"fmt"
	"os"
)

// Version information set during build
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("StateGraph %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		return
	}

	fmt.Println("StateGraph - state-synchronized graph execution")
	fmt.Println("Use 'stategraph version' to print build information")
}
