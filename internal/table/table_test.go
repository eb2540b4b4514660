package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOtuKey_AppendsThenOverwrites(t *testing.T) {
	tb := mk(t, "t", []string{"ID", "E1"}, []string{"a", "1"}, []string{"b", "2"}, []string{"c", "3"})
	require.NoError(t, AddOtuKey(tb))
	assert.Equal(t, []string{"ID", "E1", "Otu"}, tb.Columns)
	otus, err := tb.Column(OtuColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"Otu0", "Otu1", "Otu2"}, otus)

	sub := tb.Filter(func(r []string) bool { return r[0] != "b" })
	sub.Rows = [][]string{append([]string(nil), sub.Rows[0]...), append([]string(nil), sub.Rows[1]...)}
	require.NoError(t, AddOtuKey(sub))
	assert.Equal(t, []string{"ID", "E1", "Otu"}, sub.Columns, "existing Otu column is overwritten in place")
	assert.Equal(t, [][]string{{"a", "1", "Otu0"}, {"c", "3", "Otu1"}}, sub.Rows)
}

func TestDrop(t *testing.T) {
	tb := mk(t, "t", []string{"ID", "E1", "Otu"}, []string{"a", "1", "Otu0"})
	d, err := tb.Drop(KeyColumn)
	require.NoError(t, err)
	assert.Equal(t, []string{"E1", "Otu"}, d.Columns)
	assert.Equal(t, [][]string{{"1", "Otu0"}}, d.Rows)
	assert.Equal(t, []string{"ID", "E1", "Otu"}, tb.Columns, "source untouched")

	_, err = tb.Drop("nope")
	assert.Error(t, err)
}

func TestHeadAndAppend(t *testing.T) {
	tb := mk(t, "t", []string{"a"}, []string{"1"}, []string{"2"}, []string{"3"})
	assert.Equal(t, 2, tb.Head(2).Len())
	assert.Equal(t, 3, tb.Head(10).Len())
	assert.Equal(t, 3, tb.Head(-1).Len())
	assert.Error(t, tb.Append("x", "y"))
	assert.Error(t, tb.Set("b", []string{"only-one"}))
}
