// Package relocate rewrites the dynamic-linking metadata of a staged
// executable so it runs outside the build environment that produced it.
//
// Two fields are touched: the embedded run-time library search path, which is
// cleared, and the interpreter path, which is rewritten to a conventional
// system loader through an ordered best-effort cascade. The actual mutation
// is delegated to an external tool (patchelf) run as a subprocess.
package relocate
