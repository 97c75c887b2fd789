package container

import (
	"fmt"
	"os"

	tupmcrypto "tupm/internal/crypto"
	"tupm/internal/util"
)

// Encode derives a fresh salt and encrypts payload (the serialized flat-file
// database, without the inner magic) under passphrase, returning the
// complete on-disk container bytes: outer magic, version, salt, ciphertext.
func Encode(payload []byte, passphrase string) ([]byte, error) {
	salt, err := util.RandomBytes(SaltSize)
	if err != nil {
		return nil, err
	}

	inner := make([]byte, 0, headerSize+len(payload))
	inner = append(inner, Magic[0], Magic[1], Magic[2], Version)
	inner = append(inner, payload...)

	dm, err := tupmcrypto.DeriveKeyAndIV(passphrase, salt)
	if err != nil {
		return nil, err
	}
	defer dm.Close()

	ciphertext, err := tupmcrypto.Encrypt(dm.Key, dm.IV, inner)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, headerSize+SaltSize+len(ciphertext))
	out = append(out, Magic[0], Magic[1], Magic[2], Version)
	out = append(out, salt...)
	out = append(out, ciphertext...)
	return out, nil
}

// LoadFile reads and decodes a container file from disk.
func LoadFile(path, passphrase string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data, passphrase)
}

// SaveFile encodes payload and writes it to path atomically: the new
// container is written to a sibling "<path>.incomplete" file, which is then
// renamed over path. A crash or interruption between the write and the
// rename leaves the original file untouched; a decode failure never
// reaches the filesystem.
func SaveFile(path string, payload []byte, passphrase string) error {
	data, err := Encode(payload, passphrase)
	if err != nil {
		return err
	}

	tmp := path + ".incomplete"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s to %s: %w", tmp, path, err)
	}
	return nil
}
