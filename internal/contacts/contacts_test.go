package contacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeContacts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLookup(t *testing.T) {
	path := writeContacts(t, "user_id,name,phone_number\n42,Maria,5511999990000\n7,Joao,5511888880000\n")

	book, err := Load(path)
	require.NoError(t, err)

	contact, err := book.Lookup(42)
	require.NoError(t, err)
	assert.Equal(t, "Maria", contact.Name)
	assert.Equal(t, "5511999990000", contact.PhoneNumber)
}

func TestLookupMissingContact(t *testing.T) {
	path := writeContacts(t, "user_id,name,phone_number\n42,Maria,5511999990000\n")

	book, err := Load(path)
	require.NoError(t, err)

	_, err = book.Lookup(99)
	assert.ErrorIs(t, err, ErrContactMissing)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}
