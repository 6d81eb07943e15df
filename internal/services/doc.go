// Package services provides the orchestration layer between the interactive
// shell and the ledger: persistence first, then best-effort event
// publishing.
package services
