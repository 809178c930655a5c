// Package errors provides the classified error primitives used across sitepipe.
//
// A ClassifiedError carries a category (which part of the build failed), a
// severity (whether the build can continue) and structured context that is
// attached to log records. Errors are created through the fluent builder:
//
//	err := errors.WrapError(cause, errors.CategoryAsset, "copy asset directory").
//		Warning().
//		WithContext("source", src).
//		WithContext("destination", dst).
//		Build()
//
// Only fatal-severity errors abort a build. Pipeline stages (filters, route
// generators, asset synchronization, HTML post-processing) report warnings.
package errors
