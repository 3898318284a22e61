// Package envfile reads and writes the KEY=VALUE environment-file format
// used to move parameter values in and out of the store.
//
// The format is one pair per line. On export, keys are the uppercased
// last path segment of the parameter name; on import, keys are
// lowercased before being joined onto a target path. A non-blank line
// without '=' is a format error, reported with the offending line.
package envfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kingalban/aws-butler/errors"
)

// Pair is one KEY=VALUE entry.
type Pair struct {
	Key   string
	Value string
}

// Parse reads env-file content into a key→value map with lowercased keys.
// Blank lines are skipped; any other line lacking '=' aborts the parse.
func Parse(r io.Reader) (map[string]string, error) {
	pairs := make(map[string]string)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		key, value, found := strings.Cut(line, "=")
		if !found {
			return nil, errors.NewError("parseEnvFile", errors.ErrMalformedEnvFile).
				WithMessage(fmt.Sprintf("line %d: expected '=' in %q", lineNo, line))
		}

		pairs[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewError("parseEnvFile", err)
	}

	return pairs, nil
}

// Write renders pairs in env-file format, uppercasing each key.
func Write(w io.Writer, pairs []Pair) error {
	for _, p := range pairs {
		if _, err := fmt.Fprintf(w, "%s=%s\n", strings.ToUpper(p.Key), p.Value); err != nil {
			return errors.NewError("writeEnvFile", err)
		}
	}
	return nil
}

// Qualify joins a lowercased local key onto a target path, producing the
// fully-qualified parameter name ("/svc/db" + "user" -> "/svc/db/user").
func Qualify(path, key string) string {
	return strings.TrimSuffix(path, "/") + "/" + strings.ToLower(key)
}
