package test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Manifest declares a concrete component with an enum field and a generic
// component with three allowed arguments.
const Manifest = `
type: manifest.componentschema.dev/v1
types:
  - name: Mod.Blend
    module: Mod
    kind: enum
    enumValues: [Add, Multiply]
components:
  - name: Mod.AudioOutput
    module: Mod
    description: Plays audio.
    fields:
      - name: Volume
        wrapper: Value
        type: {name: float}
      - name: Blend
        wrapper: Value
        type: {ref: "[Mod]Mod.Blend"}
  - name: Mod.ValueField
    module: Mod
    parameters: [T]
    allowedArguments: [bool, int, "[Mod]Mod.Blend"]
    fields:
      - name: Value
        wrapper: Value
        type: {name: T}
`

// WriteManifest writes Manifest into dir and returns its path.
func WriteManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "mod.manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(Manifest), 0o600))
	return path
}

// WriteFile writes data to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
