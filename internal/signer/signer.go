package signer

// Signer signs report artifacts
type Signer interface {
	// SignDetached creates an armored detached signature over data
	SignDetached(data []byte) ([]byte, error)
}
