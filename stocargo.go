// Package stocargo provides a local, CLI-based search tool for Star Trek
// Online wiki data. It downloads Cargo exports for a fixed set of record
// categories, caches them on disk, and evaluates boolean search expressions
// against the cached records.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, lipgloss/).
package stocargo
