package config

import (
	"fmt"
	"strings"
)

// Environment is an isolated backend deployment.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// ParseEnvironment accepts the full names and the dev/prod shorthands.
func ParseEnvironment(name string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dev", "development":
		return Development, nil
	case "prod", "production":
		return Production, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, name)
	}
}

func (e Environment) String() string {
	return string(e)
}

// Short is the name used for env file suffixes.
func (e Environment) Short() string {
	if e == Production {
		return "prod"
	}
	return "dev"
}
