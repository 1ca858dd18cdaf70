package registry

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Record is one stored schema version.
type Record struct {
	ID        string         `json:"id"`
	Subject   string         `json:"subject"`
	Version   string         `json:"version"`
	Timestamp time.Time      `json:"timestamp"`
	Schema    map[string]any `json:"schema"`
}

// Store persists schema versions on the filesystem, one JSON file per version
// named <hex(subject)>_<unix nanos>.json.
type Store struct {
	dir         string
	maxVersions int
	now         func() time.Time
}

// NewStore creates a filesystem-backed store rooted at dir.
func NewStore(dir string, maxVersions int) (*Store, error) {
	if maxVersions <= 0 {
		maxVersions = defaultMaxVersions
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create schema store dir: %w", err)
	}
	return &Store{dir: dir, maxVersions: maxVersions, now: time.Now}, nil
}

// Put saves a schema version for subject and prunes versions beyond the limit.
func (s *Store) Put(subject, version string, schema map[string]any) (Record, error) {
	rec := Record{
		ID:        uuid.NewString(),
		Subject:   subject,
		Version:   version,
		Timestamp: s.now().UTC(),
		Schema:    schema,
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return Record{}, fmt.Errorf("marshal schema record: %w", err)
	}

	// File names sort by time; bump the stamp on collision.
	stamp := rec.Timestamp.UnixNano()
	for {
		name := fmt.Sprintf("%s_%020d.json", subjectKey(subject), stamp)
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			stamp++
			continue
		}
		if err != nil {
			return Record{}, fmt.Errorf("create schema file: %w", err)
		}
		_, werr := f.Write(raw)
		cerr := f.Close()
		if werr != nil {
			return Record{}, fmt.Errorf("write schema file: %w", werr)
		}
		if cerr != nil {
			return Record{}, fmt.Errorf("close schema file: %w", cerr)
		}
		break
	}

	return rec, s.prune(subject)
}

// Latest returns the most recently stored version of subject, or nil when the
// subject has no versions.
func (s *Store) Latest(subject string) (*Record, error) {
	entries, err := s.entries(subject)
	if err != nil || len(entries) == 0 {
		return nil, err
	}
	rec, err := s.read(entries[len(entries)-1])
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns every retained version of subject, oldest first.
func (s *Store) List(subject string) ([]Record, error) {
	entries, err := s.entries(subject)
	if err != nil {
		return nil, err
	}
	out := make([]Record, 0, len(entries))
	for _, name := range entries {
		rec, err := s.read(name)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) read(name string) (Record, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return Record{}, fmt.Errorf("read schema file: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("unmarshal schema record %s: %w", name, err)
	}
	return rec, nil
}

func (s *Store) entries(subject string) ([]string, error) {
	prefix := subjectKey(subject) + "_"
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read store dir: %w", err)
	}

	var matching []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		// Skip stray files that only share the prefix.
		if stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json"); !isDigits(stamp) {
			continue
		}
		matching = append(matching, name)
	}
	sort.Strings(matching)
	return matching, nil
}

func (s *Store) prune(subject string) error {
	entries, err := s.entries(subject)
	if err != nil {
		return err
	}
	if len(entries) <= s.maxVersions {
		return nil
	}
	for _, name := range entries[:len(entries)-s.maxVersions] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("prune schema file: %w", err)
		}
	}
	return nil
}

// subjectKey encodes a subject for use in file names. The encoding is
// reversible so distinct subjects never share a history.
func subjectKey(subject string) string {
	return hex.EncodeToString([]byte(subject))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
