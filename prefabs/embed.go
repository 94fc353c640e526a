package prefabs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// LoadScript reads a behaviour script, preferring a copy on disk under
// prefabs/scripts so edits are picked up without a rebuild.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

//go:embed *.yaml
var PrefabsFS embed.FS

func Load(name string) ([]byte, error) {
	clean := cleanPrefabPath(name)
	if data, err := os.ReadFile(diskPrefabPath(clean)); err == nil {
		return data, nil
	}
	return PrefabsFS.ReadFile(clean)
}

// PrefabFile maps a prefab name like "coin" to its file name.
func PrefabFile(name string) string {
	clean := cleanPrefabPath(name)
	if isSpecFile(clean) {
		return clean
	}
	return clean + ".yaml"
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if strings.HasPrefix(s, "prefabs/") {
		return strings.TrimPrefix(s, "prefabs/")
	}
	return s
}

func cleanScriptPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "prefabs/scripts/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "prefabs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scripts/"); ok {
		s = after
	}

	return fmt.Sprintf("scripts/%s", s)
}

func diskPrefabPath(clean string) string {
	return filepath.Join("prefabs", filepath.FromSlash(clean))
}
