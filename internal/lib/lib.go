// Package lib holds clients and helpers for external systems that do not fit
// strictly into the handler, service or server layers.
//
// upstream is the HTTP client for the remote subscription service; jsonutil
// decodes request and response bodies strictly.
package lib
