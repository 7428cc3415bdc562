// ABOUTME: SQLite database schema for the song corpus
// ABOUTME: Songs metadata, ordinal-keyed vectors and lexical relations
package sqlite

// Schema contains all SQL statements for database initialization
const Schema = `
-- Song metadata, keyed by row id (row id = vector ordinal + 1)
CREATE TABLE IF NOT EXISTS songs (
    id INTEGER PRIMARY KEY,
    artist TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    lyrics TEXT NOT NULL,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Song vectors (vector index corpus), little-endian float64 BLOBs
CREATE TABLE IF NOT EXISTS song_vectors (
    ordinal INTEGER PRIMARY KEY,
    song_id INTEGER NOT NULL REFERENCES songs(id) ON DELETE CASCADE,
    dimension INTEGER NOT NULL,
    vector BLOB NOT NULL
);

-- WordNet-style lexical relations, one row per related term
CREATE TABLE IF NOT EXISTS lexicon (
    word TEXT NOT NULL,
    sense_rank INTEGER NOT NULL,
    relation TEXT NOT NULL CHECK (relation IN ('synonym', 'hyponym', 'hypernym')),
    position INTEGER NOT NULL,
    term TEXT NOT NULL,
    PRIMARY KEY (word, sense_rank, relation, position)
);

CREATE INDEX IF NOT EXISTS idx_song_vectors_song ON song_vectors(song_id);
`

// SchemaVersion is the current schema version for migrations
const SchemaVersion = 1
