package payload

import (
	"bytes"
	"strings"
	"testing"

	tupmerrors "tupm/internal/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := Document{
		Revision:       7,
		RemoteURL:      "https://sync.example.com/repo",
		RemoteUser:     "alice",
		RemotePassword: "s3cr3t",
		Accounts: []Account{
			{Name: "mail", User: "alice@example.com", Password: "hunter2", URL: "https://mail.example.com", Notes: ""},
			{Name: "github", User: "alice", Password: "p4ss", URL: "https://github.com", Notes: "work"},
		},
	}

	encoded, err := Encode(doc)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Revision != doc.Revision {
		t.Errorf("Revision = %d, want %d", got.Revision, doc.Revision)
	}
	if got.RemoteURL != doc.RemoteURL || got.RemoteUser != doc.RemoteUser || got.RemotePassword != doc.RemotePassword {
		t.Error("remote fields did not round-trip")
	}
	if len(got.Accounts) != 2 {
		t.Fatalf("got %d accounts, want 2", len(got.Accounts))
	}
	// Encode sorts by name: "github" < "mail".
	if got.Accounts[0].Name != "github" || got.Accounts[1].Name != "mail" {
		t.Errorf("accounts not sorted by name: %v", got.Accounts)
	}
}

func TestEncodeEmptyDocument(t *testing.T) {
	doc := Document{Revision: 0}

	encoded, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}

	got, err := Decode(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if got.Revision != 0 {
		t.Errorf("Revision = %d, want 0", got.Revision)
	}
	if got.RemoteURL != "" || len(got.Accounts) != 0 {
		t.Error("expected empty remote and no accounts")
	}
}

func TestDecodeDuplicateAccountName(t *testing.T) {
	doc := Document{
		Accounts: []Account{
			{Name: "dup", User: "a"},
		},
	}
	encoded, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}

	var second []byte
	second, err = writeAccount(second, Account{Name: "dup", User: "b"})
	if err != nil {
		t.Fatal(err)
	}
	encoded = append(encoded, second...)

	_, err = Decode(encoded)
	if err == nil {
		t.Fatal("expected error for duplicate account name")
	}
	var fmtErr *tupmerrors.FormatError
	if !tupmerrors.As(err, &fmtErr) {
		t.Errorf("expected FormatError, got %v", err)
	}
}

func TestDecodeRevisionNotInteger(t *testing.T) {
	var buf []byte
	buf, _ = writeString(buf, "not-a-number")
	buf, _ = writeString(buf, "")
	buf, _ = writeString(buf, "")
	buf, _ = writeString(buf, "")

	_, err := Decode(buf)
	if err == nil {
		t.Fatal("expected error for non-integer revision")
	}
}

func TestDecodeTruncated(t *testing.T) {
	_, err := Decode([]byte{0x00})
	if err == nil {
		t.Fatal("expected error for truncated buffer")
	}
}

func TestDecodeBadUtf8(t *testing.T) {
	var buf []byte
	buf, _ = writeString(buf, "1")
	// Manually append a length prefix claiming 2 bytes of invalid UTF-8.
	buf = append(buf, 0x00, 0x02, 0xFF, 0xFE)
	buf, _ = writeString(buf, "")
	buf, _ = writeString(buf, "")

	_, err := Decode(buf)
	if err == nil {
		t.Fatal("expected error for invalid UTF-8")
	}
}

func TestStringLengthLimits(t *testing.T) {
	maxLen := strings.Repeat("a", MaxStringLen)
	var buf []byte
	buf, err := writeString(buf, maxLen)
	if err != nil {
		t.Fatalf("writing a %d-byte string should succeed: %v", MaxStringLen, err)
	}

	c := newCursor(buf)
	got, err := c.readString()
	if err != nil {
		t.Fatal(err)
	}
	if got != maxLen {
		t.Error("max-length string did not round-trip")
	}

	tooLong := strings.Repeat("a", MaxStringLen+1)
	_, err = writeString(nil, tooLong)
	if err == nil {
		t.Fatal("expected error for string exceeding maximum length")
	}
}

func TestEmptyStringEncodesAsTwoZeroBytes(t *testing.T) {
	buf, err := writeString(nil, "")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(buf, []byte{0x00, 0x00}) {
		t.Errorf("got %x, want 0000", buf)
	}
}

func TestAccountValidate(t *testing.T) {
	if err := (Account{Name: "x"}).Validate(); err != nil {
		t.Errorf("non-empty name should validate, got %v", err)
	}
	if err := (Account{}).Validate(); err == nil {
		t.Error("empty name should fail validation")
	}
}

func TestDeterministicEncodeGivenSameInput(t *testing.T) {
	doc := Document{
		Revision: 1,
		Accounts: []Account{
			{Name: "b", User: "u"},
			{Name: "a", User: "u"},
		},
	}

	e1, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	e2, err := Encode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(e1, e2) {
		t.Error("encoding the same document twice should be byte-identical")
	}
}
