// Package files provides file system operations and discovery utilities
// for the CargoLens application.
//
// This package contains two main components:
//
// Discovery: Finds input spreadsheets (name-sorted, so batch order stays
// deterministic) and generated report artifacts (newest first).
//
// Manager: Provides basic file management operations such as reading,
// writing, and existence checks. Relative paths resolve against the
// configured data directories to maintain portability.
//
// Example usage:
//
//	// Create a discovery instance
//	discovery := files.NewDiscovery("/path/to/base")
//
//	// Find all input spreadsheets
//	inputs, err := discovery.FindSpreadsheetFiles("data/uploads")
//
//	// Create a manager instance
//	manager := files.NewManager(paths)
//
//	// Check if a report exists
//	if manager.FileExists("reports/Container_Analysis_Report.xlsx") {
//	    // Serve file
//	}
package files
