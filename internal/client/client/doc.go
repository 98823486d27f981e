// Package client is the caller side of the auth service.
//
// AuthClient owns a gRPC connection using the JSON codec and exposes the
// four auth operations. Failures come back as:
//   - *rpc.Error, the structured envelope produced by the service, which
//     callers can inspect with errors.As and render as-is;
//   - ErrUnavailable (wrapped), when the service could not be reached or did
//     not answer in time;
//   - any other wrapped error for unexpected transport failures.
//
// A request id stored with WithRequestID is forwarded to the service as the
// x-request-id metadata header.
package client
