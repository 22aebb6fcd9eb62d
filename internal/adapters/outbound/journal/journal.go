package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/abdidvp/contentmod/internal/domain"
)

const journalFile = ".contentmod/history/runs.json"

// FileJournal implements domain.RunJournal as a JSON array on disk. Writers
// from different processes are serialized with a file lock.
type FileJournal struct {
	path string
}

// New creates a journal stored below dir.
func New(dir string) *FileJournal {
	return &FileJournal{path: filepath.Join(dir, journalFile)}
}

// Path returns the journal file path.
func (j *FileJournal) Path() string { return j.path }

func (j *FileJournal) Record(rec domain.RunRecord) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return err
	}

	lock := flock.New(j.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire journal lock: %w", err)
	}
	defer lock.Unlock()

	records, err := j.Load()
	if err != nil {
		return err
	}
	records = append(records, rec)

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	return os.Rename(tmp, j.path)
}

func (j *FileJournal) Load() ([]domain.RunRecord, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var records []domain.RunRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", j.path, err)
	}
	return records, nil
}
