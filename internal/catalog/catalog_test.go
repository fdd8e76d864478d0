package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLists() map[Name][]string {
	return map[Name][]string{
		Merchants:  {"fraud_Kirlin and Sons", "fraud_Sporer-Keebler"},
		Categories: {"grocery_pos", "travel"},
		States:     {"NC", "CA"},
		Jobs:       {"Mechanical engineer"},
	}
}

func TestNew(t *testing.T) {
	c, err := New(testLists())
	require.NoError(t, err)

	assert.True(t, c.Contains(Merchants, "fraud_Kirlin and Sons"))
	assert.False(t, c.Contains(Merchants, "fraud_Unknown"))
	assert.False(t, c.Contains(Name("nope"), "NC"))
	assert.Equal(t, "NC", c.List(States).Default())
	assert.Equal(t, []string{"NC", "CA"}, c.List(States).Values(), "order is preserved")
}

func TestNew_Errors(t *testing.T) {
	lists := testLists()
	delete(lists, Jobs)
	_, err := New(lists)
	assert.ErrorContains(t, err, "jobs")

	lists = testLists()
	lists[States] = nil
	_, err = New(lists)
	assert.Error(t, err)

	lists = testLists()
	lists[States] = []string{"NC", ""}
	_, err = New(lists)
	assert.Error(t, err)
}

func TestList_ValuesIsACopy(t *testing.T) {
	l, err := NewList([]string{"a", "b"})
	require.NoError(t, err)

	v := l.Values()
	v[0] = "z"
	assert.Equal(t, "a", l.Default())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "state.json")
	require.NoError(t, os.WriteFile(path, []byte(`["NC", "CA"]`), 0o600))

	values, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"NC", "CA"}, values)

	require.NoError(t, os.WriteFile(path, []byte(`{"NC": 1}`), 0o600))
	_, err = LoadFile(path)
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
