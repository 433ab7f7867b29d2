// Package handler is the HTTP layer after the router.
//
// It decodes and validates request bodies through the validation package,
// calls the service layer, and maps failures onto client responses.
package handler
