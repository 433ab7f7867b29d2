// Package validation decodes request bodies and runs the validator tags
// declared on payload types, turning failures into typed *errs.Failure
// values.
package validation
