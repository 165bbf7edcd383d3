package auth

import "github.com/goliatone/go-errors"

// ErrUnauthorized is the uniform authentication failure. Every rejection in
// the session middleware maps to this value so a caller cannot tell a missing
// cookie from an expired token or a deleted account.
var ErrUnauthorized = errors.New("Unauthorized", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("UNAUTHORIZED")

// ErrInvalidCredentials is returned for any failed password verification.
var ErrInvalidCredentials = errors.New("invalid handle or password", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("INVALID_CREDENTIALS")

// ErrTokenExpired indicates the session token's expiry has elapsed.
var ErrTokenExpired = errors.New("session token expired", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed indicates a token that failed signature or structural checks.
var ErrTokenMalformed = errors.New("invalid session token", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized).
	WithTextCode("TOKEN_MALFORMED")

// ErrNoEmptyString rejects empty passwords before hashing.
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryValidation).
	WithTextCode("EMPTY_VALUE")
