package payload

import tupmerrors "tupm/internal/errors"

// Account is a single credential record. Name is the primary key within a
// database: non-empty and unique case-sensitively. No account references
// another.
type Account struct {
	Name     string
	User     string
	Password string
	URL      string
	Notes    string
}

// Validate checks that the account satisfies the invariants the codec and
// facade both rely on.
func (a Account) Validate() error {
	if a.Name == "" {
		return tupmerrors.NewFormatError("account name must not be empty", nil)
	}
	return nil
}

func (a Account) fields() []string {
	return []string{a.Name, a.User, a.Password, a.URL, a.Notes}
}

func readAccount(c *cursor) (Account, error) {
	name, err := c.readString()
	if err != nil {
		return Account{}, err
	}
	user, err := c.readString()
	if err != nil {
		return Account{}, err
	}
	password, err := c.readString()
	if err != nil {
		return Account{}, err
	}
	url, err := c.readString()
	if err != nil {
		return Account{}, err
	}
	notes, err := c.readString()
	if err != nil {
		return Account{}, err
	}
	return Account{Name: name, User: user, Password: password, URL: url, Notes: notes}, nil
}

func writeAccount(buf []byte, a Account) ([]byte, error) {
	var err error
	for _, f := range a.fields() {
		buf, err = writeString(buf, f)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}
