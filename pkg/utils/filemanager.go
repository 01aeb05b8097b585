// =============================================================================
// Visitor Export - File Manager Utility
// =============================================================================
//
// This module provides the file helpers shared by the exporter, the approver
// history and the CLI:
//   - Atomic writes (temp file in the same directory + rename)
//   - Output file naming
//   - Directory management
//
// WRITE STRATEGY:
//   Files are never written in place. Content goes to a temporary file next
//   to the destination, is synced, and is renamed over the destination only
//   once complete. A failed write leaves the destination untouched.
//
//   The rename needs write permission on the directory only. An existing
//   read-only destination file in a writable directory is replaced, not
//   reported as a permission error.
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ATOMIC WRITES
// =============================================================================

// WriteFileAtomic writes data to path via a temporary file and a rename.
//
// PARAMETERS:
//   - path: The destination file.
//   - data: The complete file content.
//   - perm: The permission bits of the final file.
//
// RETURNS:
//   - An error wrapping the underlying *os.PathError. Permission failures can
//     be detected with errors.Is(err, fs.ErrPermission).
func WriteFileAtomic(path string, data []byte, perm os.FileMode) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	// Remove the temporary file on any failure below.
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Chmod(tmpName, perm); err != nil {
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}

	return nil
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureDir creates dir and its parents if they don't exist.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// GenerateOutputFileName expands a file name format.
//
// PARAMETERS:
//   - format: The format string for the file name.
//             Placeholders:
//               {uuid}      - A random UUID
//               {timestamp} - Timestamp (YYYYMMDD_HHMMSS)
//               {date}      - Date (YYYYMMDD)
//               {time}      - Time (HHMMSS)
//   - now: The reference time for the date placeholders.
//
// RETURNS:
//   - The generated file name, always ending in ".csv".
//
// EXAMPLE:
//   format: "visitors_{timestamp}.csv"
//   output: "visitors_20240115_143022.csv"
func GenerateOutputFileName(format string, now time.Time) string {
	replacer := strings.NewReplacer(
		"{uuid}", uuid.New().String(),
		"{timestamp}", now.Format("20060102_150405"),
		"{date}", now.Format("20060102"),
		"{time}", now.Format("150405"),
	)
	result := replacer.Replace(format)

	if !strings.HasSuffix(strings.ToLower(result), ".csv") {
		result += ".csv"
	}

	return result
}
