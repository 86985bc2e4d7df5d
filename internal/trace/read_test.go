package trace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stackTrace = `# two points
ppt Stack.push(int):::EXIT
  var a int[]
  var i int
  var name java.lang.String
  derive prefix a i -1
  derive sum a[0..i-1]
  derive subscript a i

sample Stack.push(int):::EXIT 3
  a [1 2 3]
  i 1
  name "two words"
sample Stack.push(int):::EXIT
  i 0

ppt Other:::ENTER
  var x int
sample Other:::ENTER
  x 7
`

func TestRead(t *testing.T) {
	tr, err := Read(strings.NewReader(stackTrace))
	require.NoError(t, err)

	require.Len(t, tr.Points, 2)
	d := tr.Points[0]
	assert.Equal(t, "Stack.push(int):::EXIT", d.Name)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, []VarDecl{
		{Name: "a", Type: "int[]", Line: 3},
		{Name: "i", Type: "int", Line: 4},
		{Name: "name", Type: "java.lang.String", Line: 5},
	}, d.Vars)
	assert.Equal(t, []DeriveDecl{
		{Kind: DerivePrefix, Args: []string{"a", "i"}, Shift: -1, Line: 6},
		{Kind: DeriveSum, Args: []string{"a[0..i-1]"}, Line: 7},
		{Kind: DeriveSubscript, Args: []string{"a", "i"}, Line: 8},
	}, d.Derives)

	require.Len(t, tr.Samples, 3)
	s := tr.Samples[0]
	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 10, s.Line)
	text, ok := s.Lookup("name")
	require.True(t, ok)
	assert.Equal(t, `"two words"`, text)
	text, _ = s.Lookup("a")
	assert.Equal(t, "[1 2 3]", text)

	assert.Equal(t, 1, tr.Samples[1].Count)
	_, ok = tr.Samples[1].Lookup("a")
	assert.False(t, ok, "omitted variables are nonsensical")

	other, ok := tr.Point("Other:::ENTER")
	require.True(t, ok)
	assert.Len(t, other.Vars, 1)
	assert.Equal(t, "Other:::ENTER", tr.Samples[2].Point)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		line int
		msg  string
	}{
		{"undeclared ppt", "sample P\n  x 1\n", 1, `undeclared ppt "P"`},
		{"duplicate ppt", "ppt P\nppt P\n", 2, "declared twice"},
		{"bad count", "ppt P\n  var x int\nsample P zero\n", 3, "bad sample count"},
		{"zero count", "ppt P\nsample P 0\n", 2, "bad sample count"},
		{"var arity", "ppt P\n  var x\n", 2, "name and a type"},
		{"duplicate var", "ppt P\n  var x int\n  var x int\n", 3, `var "x" declared twice`},
		{"unknown derivation", "ppt P\n  derive product a b\n", 2, `unknown derivation "product"`},
		{"bad shift", "ppt P\n  derive prefix a i x\n", 2, `bad shift "x"`},
		{"sum arity", "ppt P\n  derive sum\n", 2, "requires a sequence"},
		{"stray line", "x 1\n", 1, "outside a ppt or sample block"},
		{"unknown declaration", "ppt P\n  val x int\n", 2, `unknown declaration "val"`},
		{"missing value", "ppt P\n  var x int\nsample P\n  x\n", 4, "has no value"},
		{"double assignment", "ppt P\n  var x int\nsample P\n  x 1\n  x 2\n", 5, "assigned twice"},
		{"blank ends sample", "ppt P\n  var x int\nsample P\n\n  x 1\n", 5, "outside"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.src))
			require.Error(t, err)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.line, se.Line)
			assert.Contains(t, se.Message, tt.msg)
		})
	}
}

func TestReadFile_NamesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.trace")
	require.NoError(t, os.WriteFile(path, []byte("ppt P\n  var\n"), 0o644))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Equal(t, path+":2: var requires a name and a type", err.Error())
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "none.trace"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
