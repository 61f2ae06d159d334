package internal

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Journal is an append-only text log of (id, value) pairs, one pair per
// line. Journals are the crash-independent secondary index of the
// archive: even if the catalog database is lost, the master journal
// still maps every imported fingerprint to its assigned id.
type Journal struct {
	path string
}

func NewJournal(path string) *Journal {
	return &Journal{path: path}
}

func (j *Journal) Path() string {
	return j.path
}

// Append writes one "<id> <value>" line and flushes it to disk before
// returning.
func (j *Journal) Append(id int64, value string) error {
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal %s: %w", j.path, err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d %s\n", id, value); err != nil {
		return fmt.Errorf("failed to append to journal %s: %w", j.path, err)
	}
	return f.Sync()
}

// Load reads the journal into an id -> value map, keeping the last value
// seen per id. A missing journal file is an empty journal.
func (j *Journal) Load() (map[int64]string, error) {
	entries := make(map[int64]string)
	err := j.scan(func(id int64, value string) {
		entries[id] = value
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// LoadReverse reads the journal into a value -> id map. Used by
// reconciliation to answer "which id was this fingerprint imported
// under". Built in line order so when the same value was journaled under
// two ids, the last-journaled id wins, matching Load's last-wins rule.
func (j *Journal) LoadReverse() (map[string]int64, error) {
	reverse := make(map[string]int64)
	err := j.scan(func(id int64, value string) {
		reverse[value] = id
	})
	if err != nil {
		return nil, err
	}
	return reverse, nil
}

// scan walks the journal line by line in file order. A missing journal
// file is an empty journal.
func (j *Journal) scan(fn func(id int64, value string)) error {
	f, err := os.Open(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open journal %s: %w", j.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 2 {
			continue // tolerate torn lines from a crashed writer
		}
		id, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		fn(id, fields[1])
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read journal %s: %w", j.path, err)
	}
	return nil
}
