// Package models defines the domain entities of the favtrax resolution pipeline.
//
// Two categories of types live here:
//
// 1. Pipeline values:
//   - [Row] : one imported record, shape-validated and tagged at import time
//   - [Song] : the normalized, schema-validated output of resolving a Row
//
// 2. Persistent entities:
//   - [PersistedSong] : a resolved Song cached in SQLite with batch metadata
//
// A Song is only ever produced by [Song.Validate] succeeding immediately
// before it is reported; a value failing validation never reaches callers as
// a resolved result.
package models
