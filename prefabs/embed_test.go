package prefabs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCleanPaths(t *testing.T) {
	tests := []struct {
		in         string
		wantPrefab string
		wantScript string
	}{
		{in: "", wantPrefab: "", wantScript: ""},
		{in: "coin.tengo", wantPrefab: "coin.tengo", wantScript: "scripts/coin.tengo"},
		{in: "scripts/coin.tengo", wantPrefab: "scripts/coin.tengo", wantScript: "scripts/coin.tengo"},
		{in: "prefabs/scripts/coin.tengo", wantPrefab: "scripts/coin.tengo", wantScript: "scripts/coin.tengo"},
		{in: "prefabs/coin.yaml", wantPrefab: "coin.yaml", wantScript: "scripts/coin.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := cleanPrefabPath(tt.in); got != tt.wantPrefab {
				t.Fatalf("cleanPrefabPath(%q) = %q, want %q", tt.in, got, tt.wantPrefab)
			}
			if got := cleanScriptPath(tt.in); got != tt.wantScript {
				t.Fatalf("cleanScriptPath(%q) = %q, want %q", tt.in, got, tt.wantScript)
			}
		})
	}
}

func TestPrefabFile(t *testing.T) {
	tests := map[string]string{
		"coin":             "coin.yaml",
		"coin.yaml":        "coin.yaml",
		"prefabs/coin.yml": "coin.yml",
		"prefabs/player":   "player.yaml",
	}
	for in, want := range tests {
		if got := PrefabFile(in); got != want {
			t.Errorf("PrefabFile(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoadScriptEmbedded(t *testing.T) {
	src, err := LoadScript("coin.tengo")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(string(src), "enable") || !strings.Contains(string(src), "update") {
		t.Fatalf("coin script is missing its hooks")
	}
}

func TestLoadPrefersDisk(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "prefabs"), 0o755); err != nil {
		t.Fatal(err)
	}
	override := []byte("name: camera\ncomponents:\n  camera:\n    zoom: 2\n")
	if err := os.WriteFile(filepath.Join(dir, "prefabs", "camera.yaml"), override, 0o644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	data, err := Load("camera.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != string(override) {
		t.Fatalf("expected the disk copy, got %q", data)
	}

	// Files that only exist embedded still load.
	if _, err := Load("player.yaml"); err != nil {
		t.Fatalf("load embedded: %v", err)
	}
}

func TestFileFilters(t *testing.T) {
	tests := []struct {
		path   string
		spec   bool
		script bool
	}{
		{path: "prefabs/coin.yaml", spec: true},
		{path: "prefabs/coin.YML", spec: true},
		{path: "prefabs/scripts/coin.tengo", script: true},
		{path: "prefabs/coin.yaml~"},
		{path: "prefabs/.coin.yaml.swp"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isSpecFile(tt.path); got != tt.spec {
				t.Fatalf("isSpecFile = %v, want %v", got, tt.spec)
			}
			if got := IsScriptFile(tt.path); got != tt.script {
				t.Fatalf("IsScriptFile = %v, want %v", got, tt.script)
			}
		})
	}
}

func TestWatcherReportsChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(dir, "coin.yaml")
	if err := os.WriteFile(target, []byte("name: coin\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case name := <-w.Events:
		if name != target {
			t.Fatalf("event for %q, want %q", name, target)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no event for %s", target)
	}
}

func TestWatcherCloseClosesChannels(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := <-w.Events; ok {
		t.Fatalf("events channel still open")
	}
	// A second close is a no-op.
	if err := w.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
}
