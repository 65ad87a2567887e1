// Package lib groups building blocks that do not fit strictly into other
// layers.
//
// It contains token and password handling (auth), the upload pipeline
// (upload), the Redis cache, background jobs (job, via Asynq), periodic
// jobs (scheduler), dependency health checks and the Resend email client.
package lib
