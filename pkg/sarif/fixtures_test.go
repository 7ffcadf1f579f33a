package sarif

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const referenceBase = "/home/jdoe/repo/"

// referenceBuilder mirrors a PVS-Studio report: 12 results, 6 of them V008,
// all under referenceBase.
func referenceBuilder() *Builder {
	b := NewBuilder("PVS-Studio", "7.11").
		AddRule("V008", "Unable to start the analysis on this file.").
		AddRule("V501", "Identical sub-expressions to the left and to the right of operator.").
		AddRule("V547", "Expression is always true/false.").
		AddRule("V1004", "Pointer was used unsafely after its check for nullptr.")

	add := func(rule, file string, line int) {
		b.AddResult(rule, "warning", rule+" in "+file, referenceBase+file, line, 1)
	}
	add("V008", "src/App/Application.cpp", 10)
	add("V008", "src/App/Document.cpp", 20)
	add("V008", "src/Gui/MainWindow.cpp", 30)
	add("V008", "Mod/Part/App/TopoShape.cpp", 40)
	add("V008", "Mod/Sketcher/App/Sketch.cpp", 50)
	add("V008", "3rdParty/zipios/zipfile.cpp", 60)
	add("V501", "src/App/Application.cpp", 70)
	add("V501", "Mod/Part/App/TopoShape.cpp", 80)
	add("V501", "3rdParty/salomesmesh/SMESH.cpp", 90)
	add("V547", "src/Gui/MainWindow.cpp", 100)
	add("V547", "Mod/Mesh/App/Core.cpp", 110)
	add("V1004", "3rdParty/zipios/zipfile.cpp", 120)
	return b
}

// writeBuilder writes b to a temp file and returns its path.
func writeBuilder(t *testing.T, b *Builder) string {
	t.Helper()
	var buf bytes.Buffer
	_, err := b.WriteTo(&buf)
	require.NoError(t, err)
	return writeTemp(t, buf.String())
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.sarif")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func loadReference(t *testing.T) *Document {
	t.Helper()
	doc, err := Load(t.Context(), writeBuilder(t, referenceBuilder()))
	require.NoError(t, err)
	return doc
}
