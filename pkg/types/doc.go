// Package types holds the core data model shared by the bootstrap
// orchestrator: catalogs of desired items, inventory snapshots of what
// a backend already has, and the per-item results of acting on the
// difference.
package types
