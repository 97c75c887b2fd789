package crypto

import (
	"bytes"
	"testing"

	tupmerrors "tupm/internal/errors"
)

func testKeyIV() ([]byte, []byte) {
	key := make([]byte, 24)
	for i := range key {
		key[i] = byte(i)
	}
	iv := make([]byte, 8)
	for i := range iv {
		iv[i] = byte(i * 2)
	}
	return key, iv
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key, iv := testKeyIV()

	plaintexts := [][]byte{
		[]byte(""),
		[]byte("a"),
		[]byte("exactly8"),
		[]byte("this is a longer plaintext that spans multiple DES blocks"),
		bytes.Repeat([]byte{0xFF}, 1024),
	}

	for _, pt := range plaintexts {
		ct, err := Encrypt(key, iv, pt)
		if err != nil {
			t.Fatalf("Encrypt(%q): %v", pt, err)
		}
		if len(ct)%BlockSize != 0 {
			t.Errorf("ciphertext length %d not a multiple of block size", len(ct))
		}

		got, err := Decrypt(key, iv, ct)
		if err != nil {
			t.Fatalf("Decrypt: %v", err)
		}
		if !bytes.Equal(got, pt) {
			t.Errorf("round trip mismatch: got %q, want %q", got, pt)
		}
	}
}

func TestEncryptAlwaysPads(t *testing.T) {
	key, iv := testKeyIV()

	// Even plaintext that is already a multiple of the block size must
	// receive a full block of padding (PKCS#7 padLen in [1, blockSize]).
	pt := bytes.Repeat([]byte{'x'}, BlockSize*2)
	ct, err := Encrypt(key, iv, pt)
	if err != nil {
		t.Fatal(err)
	}
	if len(ct) != len(pt)+BlockSize {
		t.Errorf("ciphertext length = %d, want %d", len(ct), len(pt)+BlockSize)
	}
}

func TestDecryptBadPadding(t *testing.T) {
	key, iv := testKeyIV()

	ct, err := Encrypt(key, iv, []byte("hello world"))
	if err != nil {
		t.Fatal(err)
	}
	// Corrupt the last byte to invalidate padding.
	ct[len(ct)-1] ^= 0xFF

	_, err = Decrypt(key, iv, ct)
	if err == nil {
		t.Fatal("expected error for corrupted padding")
	}
}

func TestDecryptWrongKeyIsTolerated(t *testing.T) {
	key, iv := testKeyIV()
	ct, err := Encrypt(key, iv, []byte("this database belongs to someone else"))
	if err != nil {
		t.Fatal(err)
	}

	wrongKey := make([]byte, 24)
	copy(wrongKey, key)
	wrongKey[0] ^= 0xFF

	// Decrypting under the wrong key almost always produces invalid
	// padding, which is how a bad passphrase is detected; it must never
	// panic.
	_, err = Decrypt(wrongKey, iv, ct)
	if err == nil {
		t.Log("decryption under wrong key happened to produce valid padding (rare but possible)")
	}
}

func TestDecryptShortInput(t *testing.T) {
	key, iv := testKeyIV()

	_, err := Decrypt(key, iv, []byte{1, 2, 3})
	if !tupmerrors.Is(err, tupmerrors.ErrShortInput) {
		t.Errorf("expected ErrShortInput, got %v", err)
	}
}

func TestDecryptEmptyInput(t *testing.T) {
	key, iv := testKeyIV()

	_, err := Decrypt(key, iv, nil)
	if err == nil {
		t.Fatal("expected error for empty ciphertext")
	}
}

func TestPadUnpadRoundTrip(t *testing.T) {
	for n := 0; n < BlockSize*3; n++ {
		data := bytes.Repeat([]byte{'z'}, n)
		padded := pad(data, BlockSize)
		if len(padded)%BlockSize != 0 {
			t.Fatalf("pad(%d) produced non-block-aligned length %d", n, len(padded))
		}
		unpadded, err := unpad(padded, BlockSize)
		if err != nil {
			t.Fatalf("unpad after pad(%d): %v", n, err)
		}
		if !bytes.Equal(unpadded, data) {
			t.Fatalf("pad/unpad mismatch for length %d", n)
		}
	}
}
