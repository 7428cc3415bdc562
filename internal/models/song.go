// ABOUTME: Song records and vector index neighbors
// ABOUTME: Row ids are 1-based; index ordinals are 0-based (row_id = ordinal + 1)
package models

// SongRecord is a corpus entry from the metadata store
type SongRecord struct {
	RowID  int64  `json:"row_id"`
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Lyrics string `json:"lyrics"`
}

// Neighbor is one vector index hit. Distance is squared L2; lower is closer.
type Neighbor struct {
	Ordinal  int     `json:"ordinal"`
	Distance float64 `json:"distance"`
}

// RowIDForOrdinal maps a 0-based index ordinal to the metadata store row id.
func RowIDForOrdinal(ordinal int) int64 {
	return int64(ordinal) + 1
}

// OrdinalForRowID is the inverse of RowIDForOrdinal.
func OrdinalForRowID(rowID int64) int {
	return int(rowID - 1)
}
