// Package manifest reads the packaged application's project manifest.
//
// The only field consumed is the version string, looked up first in a
// Cargo-style [package] table and then at the top level. The value is
// treated as an opaque label for naming artifacts.
package manifest
