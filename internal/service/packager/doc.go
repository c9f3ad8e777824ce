// Package packager orchestrates the release pipeline: it reads the project
// version from the manifest, locates the real executable inside the build
// result, stages it into a versioned directory, relocates its dynamic-linking
// metadata, and compresses the staged directory into the final archive.
//
// The pipeline is strictly sequential and keeps no state between runs; a
// failed run leaves at most a partially staged directory that the next run's
// destroy-then-recreate step cleans up.
package packager
