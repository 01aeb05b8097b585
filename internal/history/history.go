// =============================================================================
// Visitor Export - Approver History
// =============================================================================
//
// The approver history remembers the last approvers used in a successful
// export so the operator can pick them again. It is a bounded,
// most-recently-used list of {id, name} pairs stored as a small JSON file.
//
// RULES:
//   - Most recent first, at most MaxEntries pairs.
//   - A pair already in the list (anywhere) is not moved or duplicated.
//   - A missing or corrupt file reads as an empty list.
//   - A failed save is a warning: the in-memory list keeps the update for the
//     rest of the session and the file stays stale.
//
// FILE FORMAT:
//   [
//       {
//           "id": "E001",
//           "name": "李四"
//       }
//   ]
//
// =============================================================================

package history

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/ginjaninja78/visitor-export/internal/types"
	"github.com/ginjaninja78/visitor-export/pkg/utils"
)

// MaxEntries caps the history length.
const MaxEntries = 10

// PersistError reports that the history could not be saved. It is non-fatal.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("could not save approver history to %s: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// History is the approver history bound to a backing file.
// It is safe for use by multiple goroutines.
type History struct {
	path string

	mu      sync.Mutex
	entries []types.ApproverEntry
}

// Open loads the history stored at path. It never fails: an unreadable or
// malformed file yields an empty history.
func Open(path string) *History {
	return &History{
		path:    path,
		entries: load(path),
	}
}

func load(path string) []types.ApproverEntry {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var entries []types.ApproverEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}
	return entries
}

// Path returns the backing file path.
func (h *History) Path() string {
	return h.path
}

// Entries returns the pairs, most recent first.
func (h *History) Entries() []types.ApproverEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]types.ApproverEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Record remembers an approver pair. The returned error, if any, is a
// *PersistError; the in-memory list has been updated regardless.
//
// The lock is held until the file is in place, so the last completed Record
// is also the last write to disk.
func (h *History) Record(id, name string) error {
	entry := types.ApproverEntry{ID: id, Name: name}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.entries {
		if e == entry {
			return nil
		}
	}

	updated := make([]types.ApproverEntry, 0, len(h.entries)+1)
	updated = append(updated, entry)
	updated = append(updated, h.entries...)
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}
	h.entries = updated

	return h.save(updated)
}

func (h *History) save(entries []types.ApproverEntry) error {
	data, err := marshal(entries)
	if err != nil {
		return &PersistError{Path: h.path, Err: err}
	}
	if err := utils.WriteFileAtomic(h.path, data, 0644); err != nil {
		return &PersistError{Path: h.path, Err: err}
	}
	return nil
}

// marshal produces the 4-space indented form with non-ASCII text kept as is.
func marshal(entries []types.ApproverEntry) ([]byte, error) {
	if entries == nil {
		entries = []types.ApproverEntry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// =============================================================================
// SELECTION
// =============================================================================

// SelectByID returns the most recent pair with the given id.
func (h *History) SelectByID(id string) (types.ApproverEntry, bool) {
	return h.find(func(e types.ApproverEntry) bool { return e.ID == id })
}

// SelectByName returns the most recent pair with the given name.
func (h *History) SelectByName(name string) (types.ApproverEntry, bool) {
	return h.find(func(e types.ApproverEntry) bool { return e.Name == name })
}

func (h *History) find(match func(types.ApproverEntry) bool) (types.ApproverEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, e := range h.entries {
		if match(e) {
			return e, true
		}
	}
	return types.ApproverEntry{}, false
}
