// Package constraints provides generic type constraints shared by the internal packages.
package constraints

// Byteseq represents a generic UTF-8 byte string.
type Byteseq interface {
	~string | ~[]byte
}
