package render

import (
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/kingalban/aws-butler/errors"
)

// defaultPager keeps ANSI colors intact.
const defaultPager = "less -R"

// Page streams the output produced by write through $PAGER (default
// "less -R") attached to the terminal. write runs against the pager's
// stdin; Page returns once the pager exits.
func Page(write func(w io.Writer) error) error {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = defaultPager
	}
	argv := strings.Fields(pager)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return errors.NewError("pager", err)
	}
	if err := cmd.Start(); err != nil {
		return errors.NewError("pager", err)
	}

	writeErr := write(stdin)
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return errors.NewError("pager", err)
	}
	return writeErr
}
