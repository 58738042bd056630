package scene

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"
)

//go:embed examples/*.yaml
var examples embed.FS

// Builtins lists the names of the embedded scenes.
func Builtins() []string {
	entries, _ := examples.ReadDir("examples")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}

// Builtin returns the embedded scene called name.
func Builtin(name string) (*Scene, error) {
	data, err := examples.ReadFile(path.Join("examples", name+".yaml"))
	if err != nil {
		return nil, fmt.Errorf("scene: no built-in scene %q (have %s)", name, strings.Join(Builtins(), ", "))
	}
	return Parse(data)
}

// Open resolves ref as a built-in scene name or, failing that, a file path.
func Open(ref string) (*Scene, error) {
	if !strings.ContainsAny(ref, `/\.`) {
		if sc, err := Builtin(ref); err == nil {
			return sc, nil
		}
	}
	return Load(ref)
}
