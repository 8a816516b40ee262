package cli

import (
	"bufio"
	stderrors "errors"
	"io"
	"strings"
)

// confirm asks a yes/no question on the app's input. Anything but an
// explicit yes declines, and assumeYes skips the prompt.
func (a *App) confirm(question string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}
	a.printf("%s [y/N]: ", question)

	line, err := bufio.NewReader(a.in).ReadString('\n')
	if err != nil && !stderrors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "j", "ja":
		return true, nil
	default:
		return false, nil
	}
}
