// Package artifact finds the real executable inside an externally supplied
// build result, unwrapping one level of launcher indirection when present.
package artifact
