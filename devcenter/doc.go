// Package devcenter implements the client side of the Dev Center
// registration API: authentication, branch and commit registration, and
// the normalization of raw HTTP responses into typed results.
//
// ParseResult is the single success predicate shared by every call. A
// response is successful only when its status code is in [200, 400) and a
// body was decoded; anything else is reported as an *APIError.
//
// Authenticate exchanges an API key for a Credential. The Credential is a
// plain value that callers apply to the headers of each subsequent call.
package devcenter
