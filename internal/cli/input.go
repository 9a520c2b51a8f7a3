package cli

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

func isTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// textFromArgs joins args, falling back to piped stdin when there are none.
func textFromArgs(args []string, stdin *os.File) string {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text != "" || stdin == nil || isTerminal(stdin) {
		return text
	}
	return readTextFrom(stdin)
}

func readTextFrom(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	lines := []string{}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.TrimSpace(strings.Join(lines, " "))
}

// crlfWriter restores line starts while the terminal is in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(p []byte) (int, error) {
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
