// Package crypto provides cryptographic primitives for tupm containers:
// the PKCS#12 v1.0 key derivation function and the 3-key Triple-DES CBC
// cipher that together form the encrypted envelope around a database.
//
// This file implements the PKCS#12 v1.0 key derivation function
// (RFC 7292 Appendix B) using SHA-1, matching the Universal Password
// Manager's on-disk format. The iteration count is fixed at 20 and must
// never be changed: the UPM container format is unauthenticated, so any
// deviation here silently produces a file an original UPM client cannot
// open rather than an error a caller can catch.
package crypto

import (
	"crypto/sha1"
	"errors"
	"unicode/utf16"

	tupmerrors "tupm/internal/errors"
)

var errUnsupportedRune = errors.New("passphrase contains a character outside the Basic Multilingual Plane")

// KDF purpose identifiers per RFC 7292 Appendix B.3.
const (
	PurposeKey byte = 1
	PurposeIV  byte = 2
)

// Iterations is the PKCS#12 v1.0 iteration count used by every known UPM
// release. It is intentionally not configurable.
const Iterations = 20

const (
	u = sha1.Size // SHA-1 output size in bytes
	v = 64        // SHA-1 block size in bytes
)

// DeriveKeyAndIV derives the Triple-DES key and IV from a passphrase and
// salt using two independent PKCS#12 v1.0 KDF invocations (purpose 1 for
// the key, purpose 2 for the IV), as UPM does.
func DeriveKeyAndIV(passphrase string, salt []byte) (*DerivedMaterial, error) {
	raw, err := bmpStringZeroTerminated(passphrase)
	if err != nil {
		return nil, tupmerrors.NewCryptoError("kdf", err)
	}
	// The core API treats passphrases as borrowed byte sequences: wrap the
	// encoded form in a KeyMaterial so it is zeroed as soon as both KDF
	// invocations have consumed it, rather than lingering until GC.
	encoded := NewKeyMaterial(raw)
	SecureZero(raw)
	defer encoded.Close()

	key := pkcs12KDFSHA1(salt, encoded.Bytes(), Iterations, PurposeKey, 24)
	iv := pkcs12KDFSHA1(salt, encoded.Bytes(), Iterations, PurposeIV, 8)

	return &DerivedMaterial{Key: key, IV: iv}, nil
}

// pkcs12KDFSHA1 implements the PKCS#12 v1.0 key derivation function from
// RFC 7292 Appendix B, producing size bytes of key material identified by
// id (1 = key material, 2 = IV, 3 = MAC key - unused here).
func pkcs12KDFSHA1(salt, password []byte, iterations int, id byte, size int) []byte {
	D := make([]byte, v)
	for i := range D {
		D[i] = id
	}

	var S, P []byte
	if len(salt) > 0 {
		S = make([]byte, v*((len(salt)+v-1)/v))
		for i := range S {
			S[i] = salt[i%len(salt)]
		}
	}
	if len(password) > 0 {
		P = make([]byte, v*((len(password)+v-1)/v))
		for i := range P {
			P[i] = password[i%len(password)]
		}
	}

	I := append(S, P...)
	result := make([]byte, size)
	for i := 0; i < (size+u-1)/u; i++ {
		h := sha1.New()
		_, _ = h.Write(D)
		_, _ = h.Write(I)
		Ai := h.Sum(nil)
		for j := 1; j < iterations; j++ {
			h = sha1.New()
			_, _ = h.Write(Ai)
			Ai = h.Sum(nil)
		}
		copy(result[i*u:], Ai)

		if i*u+u < size {
			B := make([]byte, v)
			for j := range B {
				B[j] = Ai[j%u]
			}
			for j := 0; j < len(I)/v; j++ {
				block := I[j*v : (j+1)*v]
				carry := uint16(1)
				for k := v - 1; k >= 0; k-- {
					sum := uint16(block[k]) + uint16(B[k]) + carry
					block[k] = byte(sum)
					carry = sum >> 8
				}
			}
		}
	}
	return result
}

// bmpStringZeroTerminated encodes a passphrase as a NUL-terminated
// UTF-16BE (BMPString) byte string, the password encoding PKCS#12 v1.0
// specifies for the KDF input.
func bmpStringZeroTerminated(s string) ([]byte, error) {
	for _, r := range s {
		if r > 0xFFFF {
			return nil, tupmerrors.NewCryptoError("kdf", errUnsupportedRune)
		}
	}
	utf16Data := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(utf16Data)*2+2)
	for _, r := range utf16Data {
		out = append(out, byte(r>>8), byte(r))
	}
	out = append(out, 0x00, 0x00)
	return out, nil
}
