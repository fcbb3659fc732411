// Package journal persists the append-only record of created payment
// requests. The journal is both the audit log of every payment link ever
// issued and the source of truth for the next external-reference version.
package journal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"fbarbosa/cobrador/internal/config"
	"fbarbosa/cobrador/internal/models"

	"github.com/sirupsen/logrus"
)

// Use the centralized logger from config package
var log = config.Logger

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// ErrCorrupt is returned when a non-empty journal file cannot be decoded.
// It is never treated as an empty journal: doing so could hand out an
// already-used version number.
var ErrCorrupt = errors.New("journal store corrupt")

// Journal is the append-only payment-request record.
type Journal interface {
	Append(entry models.JournalEntry) error
	VersionsFor(prefix string) ([]int, error)
	All() ([]models.JournalEntry, error)
}

// FileJournal stores entries as a JSON array in a single file, rewritten on
// every append. Appends are serialized in-process; concurrent processes
// racing on the same file are a documented limitation, not handled here.
type FileJournal struct {
	path string
	mu   sync.Mutex
}

// New creates a file-backed journal at the given path. The file is created
// lazily on first append.
func New(path string) *FileJournal {
	return &FileJournal{path: path}
}

// Append adds one entry to the journal. The whole array is read back first so
// a decode failure surfaces before anything is overwritten.
func (j *FileJournal) Append(entry models.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.read()
	if err != nil {
		return err
	}
	entries = append(entries, entry)

	if err := j.write(entries); err != nil {
		return err
	}

	log.WithFields(logrus.Fields{
		"friend_id":          entry.FriendID,
		"external_reference": entry.ExternalReference,
	}).Info("Journal entry recorded")
	return nil
}

// VersionsFor returns every version number already recorded for the given
// {friend}_{MM}_{YY} prefix, in journal order.
func (j *FileJournal) VersionsFor(prefix string) ([]int, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entries, err := j.read()
	if err != nil {
		return nil, err
	}

	var versions []int
	marker := prefix + "_V"
	for _, e := range entries {
		if !strings.HasPrefix(e.ExternalReference, marker) {
			continue
		}
		v, err := strconv.Atoi(strings.TrimPrefix(e.ExternalReference, marker))
		if err != nil {
			log.WithField("external_reference", e.ExternalReference).
				Warn("Skipping journal entry with malformed version suffix")
			continue
		}
		versions = append(versions, v)
	}
	return versions, nil
}

// All returns every journal entry in append order.
func (j *FileJournal) All() ([]models.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.read()
}

// read loads the full entry array. A missing or empty file means a fresh
// journal; any other decode failure is ErrCorrupt.
func (j *FileJournal) read() ([]models.JournalEntry, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reading journal file %s: %w", j.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var entries []models.JournalEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decoding journal file %s: %v: %w", j.path, err, ErrCorrupt)
	}
	return entries, nil
}

// write rewrites the whole array, UTF-8 without HTML escaping so payment
// links survive round-trips intact.
func (j *FileJournal) write(entries []models.JournalEntry) error {
	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating journal directory: %w", err)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encoding journal entries: %w", err)
	}

	if err := os.WriteFile(j.path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("error writing journal file %s: %w", j.path, err)
	}
	return nil
}
