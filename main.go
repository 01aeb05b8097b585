// =============================================================================
// Visitor Export - Main Entry Point
// =============================================================================
//
// USAGE:
//   visitor-export generate   - Build the import file
//   visitor-export preview    - Show the normalized visitor list
//   visitor-export history    - List recently used approvers
//   visitor-export sites      - List the selectable sites
//   visitor-export version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Normalization, validation, export and history
//   - pkg/       : Shared file utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/visitor-export/cmd"
)

func main() {
	cmd.Execute()
}
