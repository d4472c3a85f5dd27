// Package oui resolves MAC addresses to vendor names using an IEEE OUI
// database file.
package oui

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/klauspost/oui"
)

// ErrInvalidMAC is returned for strings that are not a 48-bit MAC address.
var ErrInvalidMAC = errors.New("invalid MAC address format")

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from OUI operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// DB is a lazily opened OUI database. The file is read on first use.
type DB struct {
	path string

	once sync.Once
	db   oui.OuiDB
	err  error
}

// Open returns a database backed by the oui.txt file at path.
func Open(path string) *DB {
	return &DB{path: path}
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

func (d *DB) load() error {
	d.once.Do(func() {
		if d.path == "" {
			d.err = errors.New("no OUI database configured")
			return
		}
		debugLog("Loading OUI database from: %s", d.path)
		db, err := oui.OpenStaticFile(d.path)
		if err != nil {
			d.err = fmt.Errorf("failed to open OUI database: %w", err)
			return
		}
		d.db = db
	})
	return d.err
}

// Lookup returns the manufacturer registered for mac's prefix. An unknown
// prefix yields "" and a nil error.
func (d *DB) Lookup(mac string) (string, error) {
	if err := d.load(); err != nil {
		return "", err
	}
	norm := NormalizeMAC(mac)
	if norm == "" {
		return "", ErrInvalidMAC
	}
	entry, err := d.db.Query(norm)
	if err != nil {
		if errors.Is(err, oui.ErrNotFound) {
			debugLog("%s: vendor not found in database", norm)
			return "", nil
		}
		return "", fmt.Errorf("OUI lookup failed: %w", err)
	}
	debugLog("%s -> %s", norm, entry.Manufacturer)
	return entry.Manufacturer, nil
}

// Vendor is Lookup with errors folded into "".
func (d *DB) Vendor(mac string) string {
	name, err := d.Lookup(mac)
	if err != nil {
		debugLog("%s: %v", mac, err)
		return ""
	}
	return name
}

// NormalizeMAC accepts "00:11:22:33:44:55", "00-11-22-33-44-55",
// "0011.2233.4455" or "001122334455" and returns the lower-case colon form,
// or "" when mac is not a 48-bit address.
func NormalizeMAC(mac string) string {
	mac = strings.ToLower(mac)
	mac = strings.NewReplacer("-", "", ":", "", ".", "").Replace(mac)
	if len(mac) != 12 {
		return ""
	}
	for _, c := range mac {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return ""
		}
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		mac[0:2], mac[2:4], mac[4:6], mac[6:8], mac[8:10], mac[10:12])
}
