// Package crypto provides cryptographic primitives for tupm containers:
// the PKCS#12 v1.0 key derivation function and the 3-key Triple-DES CBC
// cipher that together form the encrypted envelope around a database.
//
// This file implements the 3-key Triple-DES (EDE3) CBC cipher with PKCS#7
// padding used by the Universal Password Manager container format. This
// cipher is deliberately legacy: the container format predates AES
// adoption in the original tool, and preserving bit-exact compatibility
// with existing database files rules out swapping in a stronger cipher.
package crypto

import (
	"crypto/cipher"
	"crypto/des"

	tupmerrors "tupm/internal/errors"
)

// BlockSize is the Triple-DES block size in bytes.
const BlockSize = des.BlockSize

// Encrypt pads plaintext with PKCS#7 and encrypts it with 3-key Triple-DES
// in CBC mode using key (24 bytes) and iv (8 bytes).
func Encrypt(key, iv, plaintext []byte) ([]byte, error) {
	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, tupmerrors.NewCryptoError("cipher", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, tupmerrors.NewCryptoError("cipher", tupmerrors.ErrShortInput)
	}

	padded := pad(plaintext, block.BlockSize())
	ciphertext := make([]byte, len(padded))

	mode := cipher.NewCBCEncrypter(block, iv)
	mode.CryptBlocks(ciphertext, padded)

	return ciphertext, nil
}

// Decrypt decrypts ciphertext with 3-key Triple-DES in CBC mode and
// removes the PKCS#7 padding.
func Decrypt(key, iv, ciphertext []byte) ([]byte, error) {
	block, err := des.NewTripleDESCipher(key)
	if err != nil {
		return nil, tupmerrors.NewCryptoError("cipher", err)
	}
	if len(iv) != block.BlockSize() {
		return nil, tupmerrors.NewCryptoError("cipher", tupmerrors.ErrShortInput)
	}
	if len(ciphertext) == 0 || len(ciphertext)%block.BlockSize() != 0 {
		return nil, tupmerrors.ErrShortInput
	}

	plaintext := make([]byte, len(ciphertext))
	mode := cipher.NewCBCDecrypter(block, iv)
	mode.CryptBlocks(plaintext, ciphertext)

	return unpad(plaintext, block.BlockSize())
}

// pad applies PKCS#7 padding for the given block size.
func pad(data []byte, blockSize int) []byte {
	padLen := blockSize - (len(data) % blockSize)
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// unpad removes and validates PKCS#7 padding.
func unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, tupmerrors.ErrBadPadding
	}

	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > blockSize || padLen > len(data) {
		return nil, tupmerrors.ErrBadPadding
	}

	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, tupmerrors.ErrBadPadding
		}
	}

	return data[:len(data)-padLen], nil
}
