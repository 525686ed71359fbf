// Package dbal provides the shared types for a database-engine-agnostic
// query translation and result-access layer: the error taxonomy every
// subpackage reports through, and the column descriptor shape exchanged
// between result cursors, schema reflection, and display layers.
//
// The layer itself lives in the subpackages: param (typed parameter
// values), dialect (per-engine rendering and LIMIT/OFFSET rewriting),
// translate (argument-sequence to SQL assembly), driver (the engine
// capability contract), cursor (buffered and streaming result access),
// introspect (schema reflection), and conn (the connection facade).
package dbal

// Version is the dbal library version.
const Version = "0.3.0"
