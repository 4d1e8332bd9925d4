package config

import "errors"

var (
	// ErrConflictingCredentials is returned when a named profile and static keys are both configured.
	ErrConflictingCredentials = errors.New("both a named profile and static access keys are configured, unset one of them")
	// ErrMissingEnvFile is returned when an explicitly requested environment file does not exist.
	ErrMissingEnvFile = errors.New("environment file not found")
	// ErrUnknownEnvironment is returned for environment names other than development and production.
	ErrUnknownEnvironment = errors.New("unknown environment, expected development or production")
	// ErrUnknownBackend is returned when STORE_BACKEND names an unsupported backend.
	ErrUnknownBackend = errors.New("unknown store backend, expected dynamodb or sql")
)
