package container

import (
	tupmcrypto "tupm/internal/crypto"
	tupmerrors "tupm/internal/errors"
)

// Decode verifies and decrypts a raw container file, returning the plaintext
// payload bytes (with the inner magic and version already stripped).
//
// A mismatch between the decrypted inner magic and the expected magic is
// reported as ErrBadPassphrase: per spec, a padding failure and an
// inner-magic mismatch are both folded into the same "wrong passphrase"
// signal, since the core cannot distinguish them securely.
func Decode(data []byte, passphrase string) ([]byte, error) {
	if len(data) < headerSize+SaltSize {
		return nil, tupmerrors.NewFormatError("container truncated", nil)
	}

	if data[0] != Magic[0] || data[1] != Magic[1] || data[2] != Magic[2] {
		return nil, tupmerrors.NewFormatError("outer magic mismatch", nil)
	}
	if data[3] != Version {
		return nil, tupmerrors.NewFormatError("unsupported database version", nil)
	}

	salt := data[headerSize : headerSize+SaltSize]
	ciphertext := data[headerSize+SaltSize:]

	dm, err := tupmcrypto.DeriveKeyAndIV(passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer dm.Close()

	plaintext, err := tupmcrypto.Decrypt(dm.Key, dm.IV, ciphertext)
	if err != nil {
		// Bad padding is indistinguishable from a wrong passphrase at this
		// layer: both collapse to ErrBadPassphrase.
		return nil, tupmerrors.ErrBadPassphrase
	}

	if len(plaintext) < headerSize {
		return nil, tupmerrors.ErrBadPassphrase
	}
	if plaintext[0] != Magic[0] || plaintext[1] != Magic[1] || plaintext[2] != Magic[2] || plaintext[3] != Version {
		return nil, tupmerrors.ErrBadPassphrase
	}

	return plaintext[headerSize:], nil
}
