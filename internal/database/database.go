// Package database provides the in-memory database facade: open/save/list/
// add/update/delete operations over an account map, backed by the
// container and payload codecs.
package database

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"tupm/internal/container"
	tupmerrors "tupm/internal/errors"
	"tupm/internal/log"
	"tupm/internal/payload"
)

// Remote describes the optional sync repository bound to a database.
type Remote struct {
	URL      string
	User     string
	Password string
}

// Database is the in-memory representation of an opened or newly created
// account database. It is not safe to share across goroutines without
// external synchronization per the single-writer contract; the internal
// mutex documents and enforces that discipline defensively rather than
// promising concurrent-access safety.
type Database struct {
	mu sync.RWMutex

	dbName   string
	revision int
	remote   *Remote
	accounts map[string]payload.Account
}

// New creates an empty database: no accounts, revision 0, no remote.
func New(dbName string) *Database {
	return &Database{
		dbName:   dbName,
		accounts: make(map[string]payload.Account),
	}
}

// Open reads path, decrypts it with passphrase, and parses the plaintext
// payload into a Database. The database name is derived from path's base
// name, since the wire format itself carries no db_name field.
func Open(path, passphrase string) (*Database, error) {
	raw, err := container.LoadFile(path, passphrase)
	if err != nil {
		log.Warn("database open failed", log.String("path", path), log.Err(err))
		return nil, err
	}

	doc, err := payload.Decode(raw)
	if err != nil {
		log.Warn("database payload decode failed", log.String("path", path), log.Err(err))
		return nil, err
	}

	db := &Database{
		dbName:   dbNameFromPath(path),
		revision: doc.Revision,
		accounts: make(map[string]payload.Account, len(doc.Accounts)),
	}
	for _, acc := range doc.Accounts {
		db.accounts[acc.Name] = acc
	}
	if doc.RemoteURL != "" {
		db.remote = &Remote{URL: doc.RemoteURL, User: doc.RemoteUser, Password: doc.RemotePassword}
	}

	log.Debug("database opened", log.String("path", path), log.Int("accounts", len(db.accounts)), log.Int("revision", db.revision))
	return db, nil
}

func dbNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Save increments the revision, serializes the in-memory state through the
// payload and container codecs, and writes it atomically to path.
func (d *Database) Save(path, passphrase string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.revision++

	doc := payload.Document{
		Revision: d.revision,
		Accounts: d.accountSliceLocked(),
	}
	if d.remote != nil {
		doc.RemoteURL = d.remote.URL
		doc.RemoteUser = d.remote.User
		doc.RemotePassword = d.remote.Password
	}

	raw, err := payload.Encode(doc)
	if err != nil {
		d.revision--
		return err
	}

	if err := container.SaveFile(path, raw, passphrase); err != nil {
		d.revision--
		log.Warn("database save failed", log.String("path", path), log.Err(err))
		return err
	}

	log.Debug("database saved", log.String("path", path), log.Int("revision", d.revision))
	return nil
}

// Accounts returns a snapshot of all accounts, sorted by name.
func (d *Database) Accounts() []payload.Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.accountSliceLocked()
}

func (d *Database) accountSliceLocked() []payload.Account {
	out := make([]payload.Account, 0, len(d.accounts))
	for _, acc := range d.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the account with the given name.
func (d *Database) Get(name string) (payload.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	acc, ok := d.accounts[name]
	if !ok {
		return payload.Account{}, tupmerrors.ErrNotFound
	}
	return acc, nil
}

// Add inserts a new account. It fails with ErrNameConflict if an account
// with the same name already exists.
func (d *Database) Add(acc payload.Account) error {
	if err := acc.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[acc.Name]; exists {
		log.Warn("add rejected: name conflict", log.String("name", acc.Name))
		return tupmerrors.ErrNameConflict
	}
	d.accounts[acc.Name] = acc
	log.Debug("account added", log.String("name", acc.Name))
	return nil
}

// Update replaces the account named oldName with acc. If acc.Name differs
// from oldName (a rename) and an account already exists under acc.Name, it
// fails with ErrNameConflict. If oldName does not exist, it fails with
// ErrNotFound.
func (d *Database) Update(oldName string, acc payload.Account) error {
	if err := acc.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[oldName]; !exists {
		return tupmerrors.ErrNotFound
	}
	if acc.Name != oldName {
		if _, conflict := d.accounts[acc.Name]; conflict {
			log.Warn("update rejected: name conflict", log.String("name", acc.Name))
			return tupmerrors.ErrNameConflict
		}
		delete(d.accounts, oldName)
	}
	d.accounts[acc.Name] = acc
	log.Debug("account updated", log.String("name", acc.Name))
	return nil
}

// Delete removes the account with the given name. It fails with
// ErrNotFound if no such account exists.
func (d *Database) Delete(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.accounts[name]; !exists {
		return tupmerrors.ErrNotFound
	}
	delete(d.accounts, name)
	log.Debug("account deleted", log.String("name", name))
	return nil
}

// SetRemote binds a sync repository to this database.
func (d *Database) SetRemote(url, user, password string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.remote = &Remote{URL: url, User: user, Password: password}
}

// ClearRemote removes the sync repository binding.
func (d *Database) ClearRemote() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.remote = nil
}

// RemoteConfig returns the bound remote and whether one is set.
func (d *Database) RemoteConfig() (Remote, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.remote == nil {
		return Remote{}, false
	}
	return *d.remote, true
}

// Revision returns the current revision counter.
func (d *Database) Revision() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// DBName returns the database's filename identifier, used on remote
// repositories.
func (d *Database) DBName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.dbName
}

// SetDBName sets the database's filename identifier.
func (d *Database) SetDBName(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dbName = name
}
