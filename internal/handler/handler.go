// Package handler is the HTTP layer between the router and the services.
//
// Each endpoint is a typed function taking a request struct. Handle binds
// path, query and body data into a fresh request value, validates it, runs
// the function and writes the JSON result. Multipart endpoints store their
// files through the upload manager before calling the service and discard
// them again if the service rejects the write.
package handler
