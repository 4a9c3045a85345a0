package parser

import (
	"bufio"
	"io"
	"strings"

	"go.trai.ch/zerr"
)

const maxLineSize = 1 << 20

// logicalLine is a manifest line after continuation joining.
type logicalLine struct {
	number int
	text   string
}

// readLines splits r into logical lines. A physical line ending in '\'
// is joined with the next one unless it is a comment line.
func readLines(r io.Reader) ([]logicalLine, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		lines   []logicalLine
		pending strings.Builder
		start   int
		number  int
		joining bool
	)

	for scanner.Scan() {
		number++
		raw := strings.TrimSuffix(scanner.Text(), "\r")
		if number == 1 {
			raw = strings.TrimPrefix(raw, "\ufeff")
		}

		if strings.HasSuffix(raw, `\`) && !isCommentLine(raw) {
			if !joining {
				start = number
				joining = true
			}
			pending.WriteString(strings.TrimSuffix(raw, `\`))
			continue
		}

		if joining {
			if isCommentLine(raw) {
				// keep the comment separable from the joined text
				raw = " " + raw
			}
			pending.WriteString(raw)
			lines = append(lines, logicalLine{number: start, text: pending.String()})
			pending.Reset()
			joining = false
			continue
		}

		lines = append(lines, logicalLine{number: number, text: raw})
	}
	if err := scanner.Err(); err != nil {
		return nil, zerr.Wrap(err, "failed to read manifest")
	}

	if joining {
		lines = append(lines, logicalLine{number: start, text: pending.String()})
	}

	return lines, nil
}

// isCommentLine reports whether the first non-blank character is '#'.
func isCommentLine(s string) bool {
	return strings.HasPrefix(strings.TrimLeft(s, " \t"), "#")
}

// splitComment separates an inline comment from the code of a line.
// A '#' starts a comment only at the start of the line or after
// whitespace, so URL fragments such as "#egg=name" are kept.
func splitComment(s string) (code, comment string, found bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != '#' {
			continue
		}
		if i == 0 || s[i-1] == ' ' || s[i-1] == '\t' {
			return strings.TrimRight(s[:i], " \t"), strings.TrimSpace(s[i+1:]), true
		}
	}
	return s, "", false
}
