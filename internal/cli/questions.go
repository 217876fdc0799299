package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FillInitOptionsInteractive prompts the user to confirm or override defaults.
// An empty answer, or the end of input, keeps the default.
func FillInitOptionsInteractive(in io.Reader, out io.Writer, opts *InitOptions) {
	opts.setDefaults()
	reader := bufio.NewReader(in)

	ask := func(prompt string, value *string) {
		fmt.Fprintf(out, "%s [%s]: ", prompt, *value)
		if s, _ := reader.ReadString('\n'); strings.TrimSpace(s) != "" {
			*value = strings.TrimSpace(s)
		}
	}

	ask("Directory name", &opts.Dir)
	ask("Site title", &opts.Title)
	ask("Input directory", &opts.InputDir)
	ask("Build directory", &opts.BuildDir)
	ask("Electronic Dig URL", &opts.ExternalURL)
}
