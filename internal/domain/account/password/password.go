package password

type Hasher interface {
	Hash(password string) (string, error)
	// Verify reports false for a malformed hash instead of failing.
	Verify(password, hash string) bool
}
