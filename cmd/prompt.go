// ABOUTME: Interactive prompt helpers for commands that collect credentials
// ABOUTME: Passwords are read without echo when stdin is a terminal

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptLine reads a single line of input with a label
func promptLine(r io.Reader, w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing it. When stdin is not
// a terminal (tests, pipes) it falls back to a plain line read.
func promptPassword(w io.Writer, label string) (string, error) {
	fmt.Fprintf(w, "%s: ", label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(w)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	return promptLineRaw(os.Stdin)
}

func promptLineRaw(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
