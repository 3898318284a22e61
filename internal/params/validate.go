package params

import (
	"regexp"
	"strings"

	"github.com/kingalban/aws-butler/errors"
)

// SSM parameter name limits.
// https://docs.aws.amazon.com/systems-manager/latest/userguide/sysman-parameter-name-constraints.html
const (
	maxNameLength      = 1011
	maxHierarchyLevels = 15
)

var (
	segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

	// A fully-qualified parameter ARN is a valid write target; the name
	// contract then applies to the path suffix.
	arnPattern = regexp.MustCompile(`^arn:aws:ssm:[a-z0-9-]*:[0-9]*:parameter(/.+)$`)
)

// ValidateName checks a candidate parameter name against the store's name
// contract. It runs before any network call so a bad name aborts the whole
// operation locally. Violations are reported with the offending input via
// errors.ErrInvalidName.
func ValidateName(name string) error {
	invalid := func(reason string) error {
		return errors.NewNameError("validateName", name, errors.ErrInvalidName).
			WithMessage(reason)
	}

	if name == "" {
		return invalid("name is empty")
	}
	if len(name) > maxNameLength {
		return invalid("name exceeds 1011 characters")
	}

	// Strip the ARN envelope, keeping the /name suffix.
	if m := arnPattern.FindStringSubmatch(name); m != nil {
		name = m[1]
	}

	if strings.Contains(name, "/") && !strings.HasPrefix(name, "/") {
		return invalid("a name containing '/' must be a fully qualified path")
	}
	if strings.Count(name, "/") > maxHierarchyLevels {
		return invalid("name exceeds 15 hierarchy levels")
	}

	segments := strings.Split(strings.TrimPrefix(name, "/"), "/")
	for _, segment := range segments {
		if segment == "" {
			return invalid("name contains an empty path segment")
		}
		if !segmentPattern.MatchString(segment) {
			return invalid("name may only contain letters, digits, '_', '.', '-' and path separators")
		}
	}

	first := strings.ToLower(segments[0])
	if strings.HasPrefix(first, "aws") || strings.HasPrefix(first, "ssm") {
		return invalid(`name must not begin with the reserved prefix "aws" or "ssm"`)
	}

	return nil
}
