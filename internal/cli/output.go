package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	failMark = color.New(color.FgRed).Sprint("✗")
	hintMark = color.New(color.FgCyan).Sprint("→")
	warnText = color.New(color.FgYellow).SprintFunc()
	pathText = color.New(color.FgCyan).SprintFunc()
	boldText = color.New(color.Bold).SprintFunc()
)

// stdout is a colour-aware writer on Windows consoles and plain os.Stdout
// elsewhere.
func stdout() io.Writer { return colorable.NewColorableStdout() }

// stdoutIsTerminal is a test seam.
var stdoutIsTerminal = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", okMark, fmt.Sprintf(format, args...))
}

func failure(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", failMark, fmt.Sprintf(format, args...))
}

func hint(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", hintMark, fmt.Sprintf(format, args...))
}

// startSpinner shows a spinner on an interactive stdout. The returned stop
// function prints final, if any, once the spinner is gone.
func startSpinner(w io.Writer, message string) func(final string) {
	if !stdoutIsTerminal() {
		return func(final string) {
			if final != "" {
				fmt.Fprintln(w, strings.TrimRight(final, "\n"))
			}
		}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()

	return func(final string) {
		if final != "" && !strings.HasSuffix(final, "\n") {
			final += "\n"
		}
		s.FinalMSG = final
		s.Stop()
	}
}
