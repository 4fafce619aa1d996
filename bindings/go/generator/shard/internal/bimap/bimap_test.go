package bimap_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/componentschema/componentschema/bindings/go/generator/shard/internal/bimap"
)

func TestSetAndGet(t *testing.T) {
	r := require.New(t)

	m := bimap.New[string, string]()
	m.Set("AudioOutput", "[Mod]Mod.AudioOutput")
	m.Set("ValueField_1", "Mod.ValueField`1")

	v, ok := m.Get("AudioOutput")
	r.True(ok)
	r.Equal("[Mod]Mod.AudioOutput", v)

	k, ok := m.GetByValue("Mod.ValueField`1")
	r.True(ok)
	r.Equal("ValueField_1", k)

	r.Equal(2, m.Len())
	r.Equal([]string{"AudioOutput", "ValueField_1"}, m.Keys())
}

func TestOverwrite(t *testing.T) {
	t.Run("key", func(t *testing.T) {
		r := require.New(t)
		m := bimap.New[string, int]()
		m.Set("a", 1)
		m.Set("a", 2)

		v, ok := m.Get("a")
		r.True(ok)
		r.Equal(2, v)
		_, ok = m.GetByValue(1)
		r.False(ok)
		r.Equal(1, m.Len())
	})

	t.Run("value", func(t *testing.T) {
		r := require.New(t)
		m := bimap.New[string, int]()
		m.Set("a", 1)
		m.Set("b", 1)

		_, ok := m.Get("a")
		r.False(ok)
		k, ok := m.GetByValue(1)
		r.True(ok)
		r.Equal("b", k)
		r.Equal(1, m.Len())
	})
}

func TestAllIsOrdered(t *testing.T) {
	r := require.New(t)
	m := bimap.New[string, int]()
	m.Set("c", 3)
	m.Set("a", 1)
	m.Set("b", 2)

	var keys []string
	var values []int
	for k, v := range m.All() {
		keys = append(keys, k)
		values = append(values, v)
	}
	r.Equal([]string{"a", "b", "c"}, keys)
	r.Equal([]int{1, 2, 3}, values)
}
