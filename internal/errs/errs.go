// Package errs define custom error types and utilities.
//
// Its purpose is to create specific error structures
// (HTTPError for API responses, Failure for the subscribe path)
// to ensure the client receives meaningful and consistent
// error messages while the technical detail stays in the logs.
package errs
