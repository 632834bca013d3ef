package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/kidslabs/catalog/internal/common"
)

var (
	readPassword = term.ReadPassword
	stdinFd      = func() int { return int(os.Stdin.Fd()) }
)

var (
	errEmptyPassword    = errors.New("password must not be empty")
	errPasswordMismatch = errors.New("passwords do not match")
)

// GetPassword prints prompt to w and reads a password from the terminal
// without echo. The caller must wipe the returned slice.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	fmt.Fprint(w, prompt)
	p, err := readPassword(stdinFd())
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("error reading password: %w", err)
	}
	return p, nil
}

// getNewPassword asks for a password twice and returns it when both
// entries match and are non-empty.
func getNewPassword(w io.Writer) ([]byte, error) {
	first, err := GetPassword(w, "Password: ")
	if err != nil {
		return nil, err
	}

	second, err := GetPassword(w, "Repeat password: ")
	if err != nil {
		common.WipeByteArray(first)
		return nil, err
	}
	defer common.WipeByteArray(second)

	if !bytes.Equal(first, second) {
		common.WipeByteArray(first)
		return nil, errPasswordMismatch
	}
	if len(first) == 0 {
		return nil, errEmptyPassword
	}
	return first, nil
}
