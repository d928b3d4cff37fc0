package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"
)

var errStdinUnavailable = errors.New("stdin unavailable")

// readPasswordNoEcho reads one line from stdin with terminal echo turned off.
func readPasswordNoEcho(stdin *os.File) ([]byte, error) {
	if stdin == nil {
		return nil, errStdinUnavailable
	}
	restore, err := disableEcho(stdin)
	if err != nil {
		return nil, err
	}
	defer restore()
	return readPromptLine(stdin)
}

func readPromptLine(in io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return []byte(strings.TrimRight(line, "\r\n")), nil
}
