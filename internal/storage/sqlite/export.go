// ABOUTME: Export functionality for the song corpus
// ABOUTME: Supports YAML and Markdown catalogs plus a JSON vector dump
package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ExportData represents the complete exportable data structure
type ExportData struct {
	Version    string       `yaml:"version" json:"version"`
	ExportedAt string       `yaml:"exported_at" json:"exported_at"`
	Tool       string       `yaml:"tool" json:"tool"`
	Stats      Stats        `yaml:"stats" json:"stats"`
	Songs      []ExportSong `yaml:"songs,omitempty" json:"songs,omitempty"`
}

// ExportSong represents a corpus song for export
type ExportSong struct {
	RowID  int64  `yaml:"row_id" json:"row_id"`
	Artist string `yaml:"artist" json:"artist"`
	Title  string `yaml:"title" json:"title"`
	Lyrics string `yaml:"lyrics" json:"lyrics"`
}

// Export collects corpus stats and every song
func (s *Storage) Export(ctx context.Context) (*ExportData, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}

	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "lyricmatch",
		Stats:      *stats,
	}

	songs, err := s.corpus.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	for _, song := range songs {
		data.Songs = append(data.Songs, ExportSong{
			RowID:  song.RowID,
			Artist: song.Artist,
			Title:  song.Title,
			Lyrics: song.Lyrics,
		})
	}

	return data, nil
}

// ExportToYAML exports data to a YAML file
func (s *Storage) ExportToYAML(ctx context.Context, outputPath string) error {
	data, err := s.Export(ctx)
	if err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return encoder.Close()
}

// ExportToMarkdown exports the song catalog to a Markdown file
func (s *Storage) ExportToMarkdown(ctx context.Context, outputPath string) error {
	data, err := s.Export(ctx)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString("# Song Corpus\n\n")
	fmt.Fprintf(&sb, "*Exported: %s*\n\n", data.ExportedAt)
	fmt.Fprintf(&sb, "- Songs: %d\n", data.Stats.Songs)
	fmt.Fprintf(&sb, "- Vector dimension: %d\n", data.Stats.Dimension)
	fmt.Fprintf(&sb, "- Lexicon entries: %d\n\n", data.Stats.LexiconEntries)

	for _, song := range data.Songs {
		fmt.Fprintf(&sb, "## %d. %s\n\n", song.RowID, song.Title)
		if song.Artist != "" {
			fmt.Fprintf(&sb, "**Artist:** %s\n\n", song.Artist)
		}
		for _, line := range strings.Split(song.Lyrics, "\n") {
			fmt.Fprintf(&sb, "> %s\n", line)
		}
		sb.WriteString("\n")
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write Markdown: %w", err)
	}
	return nil
}

// ExportVectorsToJSON exports the vector index corpus to a JSON file
func (s *Storage) ExportVectorsToJSON(ctx context.Context, outputPath string) error {
	rows, err := s.db.Query(ctx, `
		SELECT ordinal, song_id, vector
		FROM song_vectors
		ORDER BY ordinal ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to query vectors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	type VectorExport struct {
		Ordinal int       `json:"ordinal"`
		RowID   int64     `json:"row_id"`
		Vector  []float64 `json:"vector"`
	}

	vectors := []VectorExport{}
	for rows.Next() {
		var (
			v    VectorExport
			blob []byte
		)
		if err := rows.Scan(&v.Ordinal, &v.RowID, &blob); err != nil {
			return fmt.Errorf("failed to scan vector: %w", err)
		}
		v.Vector = blobToVector(blob)
		vectors = append(vectors, v)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	file, err := createOutput(outputPath)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(vectors); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

func createOutput(outputPath string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return file, nil
}
