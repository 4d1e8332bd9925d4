package credentials

import (
	"errors"
	"strings"

	"github.com/aws/smithy-go"
)

// Kind classifies an authentication failure for diagnostics.
type Kind string

const (
	KindInvalidCredentials Kind = "invalid-credentials"
	KindExpiredToken       Kind = "expired-token"
	KindAccessDenied       Kind = "access-denied"
	KindUnknown            Kind = "unknown"
)

var patterns = []struct {
	kind    Kind
	needles []string
}{
	{KindExpiredToken, []string{"expiredtoken", "token has expired", "security token included in the request is expired", "expired"}},
	{KindInvalidCredentials, []string{"invalidclienttokenid", "unrecognizedclientexception", "signaturedoesnotmatch", "invalidaccesskeyid", "security token included in the request is invalid", "no valid credential"}},
	{KindAccessDenied, []string{"accessdenied", "access denied", "not authorized", "unauthorizedoperation"}},
}

// Classify maps a raw error message to a Kind.
func Classify(raw string) Kind {
	msg := strings.ToLower(raw)
	for _, p := range patterns {
		for _, needle := range p.needles {
			if strings.Contains(msg, needle) {
				return p.kind
			}
		}
	}
	return KindUnknown
}

// ClassifyError prefers the API error code and falls back to the message.
func ClassifyError(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if kind := Classify(apiErr.ErrorCode()); kind != KindUnknown {
			return kind
		}
	}
	return Classify(err.Error())
}

// Guidance returns what the operator should try next.
func Guidance(kind Kind) string {
	switch kind {
	case KindInvalidCredentials:
		return "check AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY or the AWS_PROFILE entry in ~/.aws/credentials"
	case KindExpiredToken:
		return "refresh the session (aws sso login or a new AWS_SESSION_TOKEN) and retry"
	case KindAccessDenied:
		return "the identity is valid but lacks DynamoDB permissions for these tables"
	default:
		return "run the status command for details, or set USE_LOCAL_DYNAMODB=true to work against the local emulator"
	}
}
