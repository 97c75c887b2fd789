package payload

import (
	"sort"
	"strconv"

	tupmerrors "tupm/internal/errors"
)

// Document is the decoded plaintext payload: the database header fields
// plus the account list, in the order the wire format defines them.
type Document struct {
	Revision       int
	RemoteURL      string
	RemoteUser     string
	RemotePassword string
	Accounts       []Account
}

// Decode parses a plaintext payload buffer (the container's decrypted
// bytes with the inner magic and version already stripped) into a
// Document.
func Decode(data []byte) (Document, error) {
	c := newCursor(data)

	revisionStr, err := c.readString()
	if err != nil {
		return Document{}, err
	}
	revision, err := strconv.Atoi(revisionStr)
	if err != nil {
		return Document{}, tupmerrors.NewFormatError("revision is not an integer", err)
	}

	remoteURL, err := c.readString()
	if err != nil {
		return Document{}, err
	}
	remoteUser, err := c.readString()
	if err != nil {
		return Document{}, err
	}
	remotePassword, err := c.readString()
	if err != nil {
		return Document{}, err
	}

	seen := make(map[string]struct{})
	var accounts []Account
	for c.remaining() > 0 {
		acc, err := readAccount(c)
		if err != nil {
			return Document{}, err
		}
		if _, dup := seen[acc.Name]; dup {
			return Document{}, tupmerrors.NewFormatError("duplicate account name: "+acc.Name, nil)
		}
		seen[acc.Name] = struct{}{}
		accounts = append(accounts, acc)
	}

	return Document{
		Revision:       revision,
		RemoteURL:      remoteURL,
		RemoteUser:     remoteUser,
		RemotePassword: remotePassword,
		Accounts:       accounts,
	}, nil
}

// Encode serializes a Document back into a plaintext payload buffer.
// Accounts are emitted sorted by name (byte-order, case-sensitive) to make
// the encoding deterministic regardless of insertion order.
func Encode(doc Document) ([]byte, error) {
	var buf []byte
	var err error

	buf, err = writeString(buf, strconv.Itoa(doc.Revision))
	if err != nil {
		return nil, err
	}
	buf, err = writeString(buf, doc.RemoteURL)
	if err != nil {
		return nil, err
	}
	buf, err = writeString(buf, doc.RemoteUser)
	if err != nil {
		return nil, err
	}
	buf, err = writeString(buf, doc.RemotePassword)
	if err != nil {
		return nil, err
	}

	sorted := make([]Account, len(doc.Accounts))
	copy(sorted, doc.Accounts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, acc := range sorted {
		buf, err = writeAccount(buf, acc)
		if err != nil {
			return nil, err
		}
	}

	return buf, nil
}
