// Package store provides the key-value persistence used for cross-cycle
// state: the last update timestamp, the last cycle id, the cached delta map
// and the ranking snapshot.
//
// The contract is deliberately narrow, Get/Set over string keys and string
// values, so the tracker owns serialization and can treat any unreadable
// stored value as absent. Bolt is the file-backed implementation used in
// production; Memory backs tests.
package store
