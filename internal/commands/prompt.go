package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// promptLine prints a prompt to out and reads one line from in.
func promptLine(in io.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return scanner.Text(), nil
}

// confirm asks a yes/no question. Only "y" and "yes" count as yes.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	answer, err := promptLine(in, out, prompt+" [y/N]: ")
	if err != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
