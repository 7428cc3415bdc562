// ABOUTME: End-to-end tests for the data commands against a temp database
// ABOUTME: Covers tag, stats, lexicon, export and embedder-less failures

package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestTagCmd(t *testing.T) {
	isolateEnv(t)

	out, err := runCLI(t, `{"classified_scene_label": "beach", "brightness": 220, "contrast": 200}`, "--quiet", "tag")
	if err != nil {
		t.Fatalf("tag error = %v", err)
	}
	tag := strings.TrimSpace(out)
	if !strings.HasPrefix(tag, "beach") {
		t.Errorf("tag = %q, want it to start with the scene word", tag)
	}
	if n := len(strings.Fields(tag)); n > 10 {
		t.Errorf("tag has %d words, want <= 10", n)
	}
}

func TestTagCmd_JSONAndMaxTags(t *testing.T) {
	isolateEnv(t)

	out, err := runCLI(t, `{"classified_scene_label": "mountain_lake_sunset", "brightness": 220}`,
		"--quiet", "--format", "json", "tag", "--max-tags", "2")
	if err != nil {
		t.Fatalf("tag error = %v", err)
	}

	var resp struct {
		Tag string `json:"tag"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if resp.Tag != "mountain lake" {
		t.Errorf("tag = %q, want %q", resp.Tag, "mountain lake")
	}
}

func TestTagCmd_BadInput(t *testing.T) {
	isolateEnv(t)

	if _, err := runCLI(t, "{", "--quiet", "tag"); err == nil {
		t.Error("tag should fail on invalid JSON")
	}
}

func TestStatsCmd_EmptyDatabase(t *testing.T) {
	dbPath := isolateEnv(t)

	out, err := runCLI(t, "", "stats")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	for _, want := range []string{dbPath, "Songs:", "Dimension:", "Lexicon:"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestLexiconImportAndLookup(t *testing.T) {
	isolateEnv(t)

	tsv := filepath.Join(t.TempDir(), "relations.tsv")
	content := "sunset\t0\tsynonym\tsunset\nsunset\t0\tsynonym\tsundown\nsunset\t0\thypernym\ttime_of_day\n"
	if err := os.WriteFile(tsv, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	out, err := runCLI(t, "", "lexicon", "import", tsv)
	if err != nil {
		t.Fatalf("lexicon import error = %v", err)
	}
	if !strings.Contains(out, "Imported 3 relations") {
		t.Errorf("import output = %q", out)
	}

	out, err = runCLI(t, "", "--quiet", "lexicon", "lookup", "Sunset")
	if err != nil {
		t.Fatalf("lexicon lookup error = %v", err)
	}
	if strings.TrimSpace(out) != "sunset, sundown, time of day" {
		t.Errorf("lookup output = %q", out)
	}

	out, err = runCLI(t, "", "--format", "json", "stats")
	if err != nil {
		t.Fatalf("stats error = %v", err)
	}
	if !strings.Contains(out, `"lexicon_entries": 3`) {
		t.Errorf("stats JSON = %s", out)
	}
}

func TestLexiconImport_MissingFile(t *testing.T) {
	isolateEnv(t)

	if _, err := runCLI(t, "", "lexicon", "import", filepath.Join(t.TempDir(), "nope.tsv")); err == nil {
		t.Error("lexicon import should fail for a missing file")
	}
}

func TestExportCmd(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		wantErr bool
	}{
		{"yaml", "corpus.yaml", false},
		{"markdown", "corpus.md", false},
		{"vectors", "vectors.json", false},
		{"unsupported", "corpus.csv", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			_, err := runCLI(t, "", "--quiet", "export", path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("export error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("export did not create %s: %v", path, err)
			}
		})
	}
}

func TestMatchCmd_RequiresEmbedder(t *testing.T) {
	isolateEnv(t)

	_, err := runCLI(t, "", "--quiet", "match", "--tag", "rain night")
	if err == nil || !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("match error = %v, want missing API key", err)
	}
}

func TestMatchCmd_InvalidTopK(t *testing.T) {
	isolateEnv(t)

	if _, err := runCLI(t, "", "--quiet", "match", "--top-k", "-1", "--tag", "rain"); err == nil {
		t.Error("match should reject a negative --top-k")
	}
}

func TestIngestCmd_Errors(t *testing.T) {
	isolateEnv(t)

	if _, err := runCLI(t, "", "--quiet", "ingest", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("ingest should fail for a missing file")
	}
	if _, err := runCLI(t, "", "--quiet", "ingest", "--batch-size", "0", "songs.csv"); err == nil {
		t.Error("ingest should reject a zero batch size")
	}
}
