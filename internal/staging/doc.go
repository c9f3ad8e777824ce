// Package staging assembles the versioned distribution directory that the
// relocator patches and the archiver compresses. Assembly is destructive:
// each run starts from an empty directory.
package staging
