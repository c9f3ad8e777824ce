// Package config defines the packaging pipeline settings and their YAML
// persistence. All fields have sensible defaults reproducing the conventional
// release layout, so the settings file is optional; Validate fills omitted
// fields in place.
package config
