// Package storage persists hydrated perspective documents in the output
// directory.
package storage

// Provider is the interface for perspective output operations.
type Provider interface {
	// List returns the file names of every .json document in the output
	// directory, sorted.
	List() ([]string, error)
	// Read returns the raw bytes of the named document.
	Read(name string) ([]byte, error)
	// Write atomically writes a document under the given file name.
	Write(name string, content []byte) error
	// Delete removes the named document.
	Delete(name string) error
}
