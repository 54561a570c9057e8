package namecache

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var namesBucket = []byte("names")

// Cache is a bbolt-backed store of display names keyed by JID. Contact push
// names and group subjects arrive as protocol events and are remembered
// across sessions so archived conversation metadata stays labeled even when
// the protocol layer does not resend them.
type Cache struct {
	db *bbolt.DB
}

func Open(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening name cache: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(namesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing name cache: %w", err)
	}

	return &Cache{db: db}, nil
}

// Put remembers the display name for a JID. Empty names are ignored.
func (c *Cache) Put(jid, name string) error {
	if name == "" {
		return nil
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(namesBucket).Put([]byte(jid), []byte(name))
	})
}

// Get returns the remembered display name for a JID.
func (c *Cache) Get(jid string) (string, bool) {
	var name string
	c.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(namesBucket).Get([]byte(jid)); v != nil {
			name = string(v)
		}
		return nil
	})
	return name, name != ""
}

func (c *Cache) Close() error {
	return c.db.Close()
}
