// Package batch runs a function over a list of items in fixed-size
// batches with bounded concurrency.
//
// Unlike a fail-fast worker pool, a failing item does not stop the run:
// every item gets an Outcome carrying either its value or its error, so a
// batch of product assessments completes with some failures recorded.
// Only an invalid call or context cancellation aborts a run.
package batch
