// Package errs defines the error types returned to API clients.
//
// Every failure leaving the HTTP layer is an *HTTPError: a stable machine
// code, a human message, the status, optional per-field errors and an
// optional client action (e.g. redirect to login). Clients can rely on the
// shape regardless of which layer produced the error.
package errs
