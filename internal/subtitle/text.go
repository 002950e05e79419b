package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const maxLineBytes = 1024 * 1024

// readLines decodes r to UTF-8 and splits it into lines. A UTF-8 BOM is
// dropped and UTF-16 input is transcoded when it carries a BOM.
func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(utf8Reader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read subtitle data: %w", err)
	}
	return lines, nil
}

func utf8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(transform.Nop))
}

// cleanText joins multi-line cue text into one line and applies NFC. Line
// breaks become single spaces; spacing inside a line is kept.
func cleanText(lines ...string) string {
	var parts []string
	for _, l := range lines {
		for _, line := range strings.Split(l, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				parts = append(parts, line)
			}
		}
	}
	return norm.NFC.String(strings.Join(parts, " "))
}

// textLines splits cue text for line based formats, dropping blank lines
// that would otherwise end the block early.
func textLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
