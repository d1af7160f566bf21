package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"golang.org/x/term"
)

// terminalPrompter reads without echo from a terminal and falls back to
// line reads when input is piped.
type terminalPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminalPrompter returns a [Prompter] reading from in and writing
// prompts to out (normally os.Stderr so stdout stays clean).
func NewTerminalPrompter(in *os.File, out io.Writer) Prompter {
	return &terminalPrompter{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

func (p *terminalPrompter) ReadPassword(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	fd := int(p.in.Fd())
	if term.IsTerminal(fd) {
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}
