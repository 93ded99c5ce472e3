// Package environment resolves the deployment environment the platform is
// built for. Every generated name and environment-dependent policy derives
// from the single value returned here.
package environment

import (
	"os"
	"strings"

	"github.com/andresionek91/bootcamp-turma-5-data-platform/internal/errors"
)

// Variable is the process environment variable selecting the environment.
const Variable = "ENVIRONMENT"

// Environment is one of the closed set of deployment targets.
type Environment string

const (
	Production Environment = "production"
	Staging    Environment = "staging"
	Develop    Environment = "develop"
)

var (
	ErrMissingEnvironment = errors.New("deployment environment is not set")
	ErrUnknownEnvironment = errors.New("unknown deployment environment")
)

// All returns every known environment in a stable order.
func All() []Environment {
	return []Environment{Production, Staging, Develop}
}

func (e Environment) String() string { return string(e) }

// Valid reports whether e is a known environment.
func (e Environment) Valid() bool {
	for _, known := range All() {
		if e == known {
			return true
		}
	}
	return false
}

// Parse maps a tag to an Environment. Matching ignores case and surrounding
// whitespace, so both PRODUCTION and production are accepted.
func Parse(tag string) (Environment, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", errors.WithHintf(ErrMissingEnvironment, "set %s to one of %s", Variable, knownTags())
	}
	env := Environment(strings.ToLower(tag))
	if !env.Valid() {
		return "", errors.WithHintf(
			errors.Wrapf(ErrUnknownEnvironment, "%q", tag),
			"set %s to one of %s", Variable, knownTags())
	}
	return env, nil
}

// Resolve reads the environment through lookup. It is called once at process
// start; callers must treat an error as fatal.
func Resolve(lookup func(string) (string, bool)) (Environment, error) {
	tag, ok := lookup(Variable)
	if !ok {
		return "", errors.WithHintf(ErrMissingEnvironment, "set %s to one of %s", Variable, knownTags())
	}
	return Parse(tag)
}

// FromEnv resolves the environment from the process environment.
func FromEnv() (Environment, error) {
	return Resolve(os.LookupEnv)
}

func knownTags() string {
	tags := make([]string, 0, len(All()))
	for _, e := range All() {
		tags = append(tags, string(e))
	}
	return strings.Join(tags, ", ")
}
