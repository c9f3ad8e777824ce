// Package archive compresses the staged distribution directory into the
// final deliverable, a tarball named after the directory itself.
package archive
