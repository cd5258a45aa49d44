package scene

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scenes/*.yaml
var ScenesFS embed.FS

//go:embed scripts/*.tengo
var ScriptsFS embed.FS

// Load reads a scene file by name, preferring an on-disk copy under scene/
// (so edits picked up by the watcher win) and falling back to the embedded
// default.
func Load(name string) ([]byte, error) {
	clean := cleanScenePath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScenesFS.ReadFile(clean)
}

// LoadScript reads a collision script by name, with the same disk-first
// lookup as Load.
func LoadScript(name string) ([]byte, error) {
	clean := cleanScriptPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScriptsFS.ReadFile(clean)
}

func cleanScenePath(path string) string {
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "scene/")
	if !strings.HasPrefix(s, "scenes/") {
		s = "scenes/" + s
	}
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func cleanScriptPath(path string) string {
	s := filepath.ToSlash(path)
	s = strings.TrimPrefix(s, "scene/")
	if !strings.HasPrefix(s, "scripts/") {
		s = fmt.Sprintf("scripts/%s", s)
	}
	if filepath.Ext(s) == "" {
		s += ".tengo"
	}
	return s
}

func diskPath(clean string) string {
	return filepath.Join("scene", filepath.FromSlash(clean))
}
