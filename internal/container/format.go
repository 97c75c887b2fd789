// Package container implements the encrypted on-disk envelope that wraps a
// tupm database: outer magic, format version, salt, and the Triple-DES/CBC
// ciphertext carrying a framed plaintext payload.
//
// The layout is byte-exact and fixed by compatibility with the Universal
// Password Manager v3 database format:
//
//	offset  length  field
//	0       3       outer magic "UPM"
//	3       1       version byte (0x03)
//	4       8       salt
//	12      rest    ciphertext (3DES/CBC)
//
// Decrypting the ciphertext yields a plaintext block that begins with the
// same magic and version bytes, followed by the payload defined in package
// payload.
package container

// Magic is the fixed 3-byte identifier that opens both the outer container
// and, after decryption, the inner plaintext block.
var Magic = [3]byte{'U', 'P', 'M'}

// Version is the only database format version this codec understands.
const Version byte = 0x03

// SaltSize is the length in bytes of the random salt stored in the outer
// envelope and fed to the KDF.
const SaltSize = 8

// headerSize is the length of magic + version, identical for both the
// outer envelope and the inner plaintext block.
const headerSize = len(Magic) + 1
