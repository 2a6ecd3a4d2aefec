// Package main is the entry point for the sntpc time synchronization client.
package main

import (
	"fmt"
	"os"

	"clockstep.dev/sntpc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
