// Package offerdoc extracts structured IPO and NCD offer data from the
// HTML pages of a single listing website. Pages come in several template
// generations, so every field is resolved through an ordered set of
// locator strategies and normalized into a fixed record schema.
//
// This package contains domain types, interfaces and pure text
// normalization following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goquery/, rod/, http/).
package offerdoc
