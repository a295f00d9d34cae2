// Package model defines the data structures for contract weaving.
package model

import "time"

// Path represents a file system path.
type Path string

// File represents a source code file.
type File struct {
	ShortPath Path
	FullPath  Path
	Hash      string
	ModTime   time.Time
}

// Source pairs a source file with its contract descriptor sidecar.
// The sidecar carries the structure metadata produced by the external
// annotation parser.
type Source struct {
	Origin  *File
	Sidecar *File
}
