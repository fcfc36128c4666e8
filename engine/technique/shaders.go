package technique

import (
	"embed"
	"fmt"
)

//go:embed assets/*.wgsl
var assets embed.FS

// ProgramSources returns the plain and textured program sources of a flavor, as New links them.
func ProgramSources(f Flavor) (plain, textured ProgramSource, err error) {
	base := "flat"
	if f.Lit() {
		base = "phong"
	}
	plain, err = loadSource(base)
	if err != nil {
		return plain, textured, err
	}
	textured, err = loadSource(base + "_tex")
	return plain, textured, err
}

func loadSource(name string) (ProgramSource, error) {
	code, err := assets.ReadFile("assets/" + name + ".wgsl")
	if err != nil {
		return ProgramSource{}, fmt.Errorf("failed to read shader %s: %w", name, err)
	}
	return ProgramSource{Label: name, Code: string(code)}, nil
}
