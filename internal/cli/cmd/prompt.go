package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/berrythewa/fmclip/internal/config"
)

// terminalPrompter asks for paths on the terminal. An empty answer keeps the
// suggested path; end of input cancels.
type terminalPrompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

func newTerminalPrompter(in io.Reader, out io.Writer, tty *os.File) *terminalPrompter {
	return &terminalPrompter{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: tty != nil && term.IsTerminal(int(tty.Fd())),
	}
}

func (p *terminalPrompter) PromptSavePath(initial string, done func(string)) {
	done(p.ask("Save to", initial))
}

func (p *terminalPrompter) PromptOpenPath(initial string, done func(string)) {
	done(p.ask("Open", initial))
}

func (p *terminalPrompter) ask(label, initial string) string {
	if p.interactive {
		if initial != "" {
			fmt.Fprintf(p.out, "%s [%s]: ", label, initial)
		} else {
			fmt.Fprintf(p.out, "%s: ", label)
		}
	}

	line, err := p.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if err != nil && line == "" {
		// EOF without an answer
		return ""
	}
	if line == "" {
		return initial
	}
	return config.ExpandHome(line)
}
