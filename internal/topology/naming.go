package topology

import (
	"regexp"
	"strings"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/environment"
	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
)

// Underscores are allowed because catalog data set names (atomic_events)
// appear inside generated names.
var namePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*[a-z0-9]$`)

// Name builds <prefix>-<environment>-<purpose>[-<sub-purpose>...].
func Name(prefix string, env environment.Environment, purpose ...string) string {
	parts := append([]string{prefix, env.String()}, purpose...)
	return strings.Join(parts, "-")
}

// StackName builds the name of a stack: <environment>-<purpose>.
func StackName(env environment.Environment, purpose string) string {
	return env.String() + "-" + purpose
}

// ValidateName reports whether name is usable as a resource or stack name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	if strings.Contains(name, "--") {
		return errors.Wrapf(ErrInvalidName, "%q has an empty segment", name)
	}
	return nil
}
