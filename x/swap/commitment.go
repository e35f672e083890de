package swap

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/iov-one/pswap/errors"
)

const (
	// SecretSize is the size of a secret in bytes.
	SecretSize = 32
	// CommitmentKeySize is the size of a commitment key in bytes.
	CommitmentKeySize = sha256.Size
)

// HashSecret returns the commitment key of given secret.
func HashSecret(secret []byte) []byte {
	hash := sha256.Sum256(secret)
	return hash[:]
}

// VerifySecret returns ErrInvalidSecret unless the secret is the preimage of
// the commitment key.
func VerifySecret(key, secret []byte) error {
	if len(secret) != SecretSize {
		return errors.Wrapf(ErrInvalidSecret, "secret must be %d bytes", SecretSize)
	}
	if subtle.ConstantTimeCompare(key, HashSecret(secret)) != 1 {
		return errors.Wrap(ErrInvalidSecret, "hash does not match the commitment key")
	}
	return nil
}

func validateCommitmentKey(key []byte) error {
	if len(key) != CommitmentKeySize {
		return errors.Wrapf(errors.ErrInvalidInput, "commitment key must be %d bytes", CommitmentKeySize)
	}
	return nil
}
