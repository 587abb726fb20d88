// Package rank turns an extracted record set into a display-ready ranking.
//
// Records are ordered by grade descending, then progress descending, and
// assigned dense competition ranks: records sharing the same
// (grade, progress) key share a rank, and the next distinct key's rank is
// the number of records ranked so far plus one. An optional data center
// filter restricts the input before ranking; the filtered ranking is
// recomputed over the subset, never inherited from an unfiltered run.
package rank
