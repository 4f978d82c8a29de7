// ABOUTME: Entry point for the filebox CLI
// ABOUTME: Terminal client for the FileBox file-storage service

package main

import (
	"fmt"
	"os"

	"filebox-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
