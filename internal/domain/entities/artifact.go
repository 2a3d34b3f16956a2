// Package entities defines core domain models and data structures.
package entities

// Artifact represents a discovered shared-library file to verify.
type Artifact struct {
	Name string // base filename, e.g. "libijkffmpeg.so"
	Path string // absolute path to the file
}
