package common

// RequestIDHeaderName is the gRPC metadata key (and HTTP header, in its
// canonical form) used to correlate a gateway request with the auth call it
// triggers.
const RequestIDHeaderName = "x-request-id"

// ErrorDomain tags error details produced by the auth service.
const ErrorDomain = "authgate"

// MaxPasswordBytes is the longest plaintext password accepted for hashing.
// bcrypt ignores anything beyond it.
const MaxPasswordBytes = 72
