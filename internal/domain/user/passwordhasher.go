package user

// PasswordHasher hashes and verifies account passwords. Verify returns
// false, nil on a mismatch and an error only for a malformed hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) (bool, error)
}
