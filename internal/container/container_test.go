package container

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	tupmerrors "tupm/internal/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		[]byte("short payload"),
		bytes.Repeat([]byte{0x42}, 500),
	}

	for _, p := range payloads {
		data, err := Encode(p, "correct horse battery staple")
		if err != nil {
			t.Fatalf("Encode: %v", err)
		}

		got, err := Decode(data, "correct horse battery staple")
		if err != nil {
			t.Fatalf("Decode: %v", err)
		}
		if !bytes.Equal(got, p) {
			t.Errorf("round trip mismatch: got %v, want %v", got, p)
		}
	}
}

func TestEncodeFreshSaltEachTime(t *testing.T) {
	payload := []byte("same payload every time")

	data1, err := Encode(payload, "pw")
	if err != nil {
		t.Fatal(err)
	}
	data2, err := Encode(payload, "pw")
	if err != nil {
		t.Fatal(err)
	}

	if len(data1) != len(data2) {
		t.Fatalf("lengths differ: %d vs %d", len(data1), len(data2))
	}
	if bytes.Equal(data1, data2) {
		t.Error("two encodes of the same database should differ (fresh salt)")
	}

	salt1 := data1[headerSize : headerSize+SaltSize]
	salt2 := data2[headerSize : headerSize+SaltSize]
	if bytes.Equal(salt1, salt2) {
		t.Error("salts should differ between encodes")
	}
}

func TestDecodeWrongPassphrase(t *testing.T) {
	data, err := Encode([]byte("sensitive payload"), "correct-password")
	if err != nil {
		t.Fatal(err)
	}

	_, err = Decode(data, "wrong-password")
	if !tupmerrors.Is(err, tupmerrors.ErrBadPassphrase) {
		t.Errorf("expected ErrBadPassphrase, got %v", err)
	}
}

func TestDecodeOuterMagicMismatch(t *testing.T) {
	data, err := Encode([]byte("x"), "pw")
	if err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'

	_, err = Decode(data, "pw")
	var fmtErr *tupmerrors.FormatError
	if !tupmerrors.As(err, &fmtErr) {
		t.Errorf("expected FormatError, got %v", err)
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	data, err := Encode([]byte("x"), "pw")
	if err != nil {
		t.Fatal(err)
	}
	data[3] = 0x99

	_, err = Decode(data, "pw")
	var fmtErr *tupmerrors.FormatError
	if !tupmerrors.As(err, &fmtErr) {
		t.Errorf("expected FormatError, got %v", err)
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode([]byte("UP"), "pw")
	var fmtErr *tupmerrors.FormatError
	if !tupmerrors.As(err, &fmtErr) {
		t.Errorf("expected FormatError for truncated input, got %v", err)
	}
}

func TestSaveLoadFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "primary")

	payload := []byte("payload to persist")
	if err := SaveFile(path, payload, "pw"); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}

	if _, err := os.Stat(path + ".incomplete"); !os.IsNotExist(err) {
		t.Error("temp file should not remain after successful save")
	}

	got, err := LoadFile(path, "pw")
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("got %v, want %v", got, payload)
	}
}

func TestSaveFileAtomicOnFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "primary")

	original := []byte("original payload")
	if err := SaveFile(path, original, "pw"); err != nil {
		t.Fatal(err)
	}

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	// Simulate an interrupted save: write the ".incomplete" sibling but
	// never rename it over path. The target file must remain untouched.
	tmp := path + ".incomplete"
	if err := os.WriteFile(tmp, []byte("partial garbage"), 0600); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmp)

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Error("target file changed despite no rename happening")
	}
}

// TestLegacyV3Fixture decodes a container built independently of this
// codec's Encode path, exercising the same byte layout a database written
// by the reference UPM v3 implementation would use.
func TestLegacyV3Fixture(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "legacy_v3.upm"))
	if err != nil {
		t.Fatal(err)
	}

	plaintext, err := Decode(data, "password")
	if err != nil {
		t.Fatalf("Decode legacy fixture: %v", err)
	}

	if !bytes.Contains(plaintext, []byte("github")) {
		t.Error("expected decoded payload to contain the fixture's \"github\" account name")
	}
	if !bytes.Contains(plaintext, []byte("sync.example.com")) {
		t.Error("expected decoded payload to contain the fixture's remote URL")
	}
}

func TestLegacyV3FixtureWrongPassphrase(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "legacy_v3.upm"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = Decode(data, "not-the-password")
	if !tupmerrors.Is(err, tupmerrors.ErrBadPassphrase) {
		t.Errorf("expected ErrBadPassphrase, got %v", err)
	}
}
