// Package rpc defines the wire contract between the gateway and the auth
// service: typed request/response messages, a JSON codec for gRPC, the
// hand-declared AuthService descriptor, request shape validation and the
// structured error envelope every failed call is rendered into.
//
// Error mapping (FromError) is ordered, first match wins:
//
//  1. the error already is an *Error: it passes through unchanged;
//  2. the error carries an HTTP-style status (common.StatusError): it is
//     repackaged with that status, its message and its reason;
//  3. anything else becomes {500, "Internal server error"} with the original
//     message in the error field.
package rpc
