package writer_test

import (
	"testing"

	"github.com/opencontainers/go-digest"
	"github.com/stretchr/testify/require"

	"github.com/componentschema/componentschema/bindings/go/generator/writer"
)

func TestDigestIgnoresFormatting(t *testing.T) {
	r := require.New(t)
	compact, err := writer.Digest([]byte(`{"b":1,"a":[true,null]}`), digest.SHA256)
	r.NoError(err)
	indented, err := writer.Digest([]byte("{\n  \"a\": [true, null],\n  \"b\": 1\n}\n"), digest.SHA256)
	r.NoError(err)
	r.Equal(compact, indented)
	r.Equal(digest.SHA256, compact.Algorithm())
	r.NoError(compact.Validate())

	other, err := writer.Digest([]byte(`{"b":2,"a":[true,null]}`), digest.SHA256)
	r.NoError(err)
	r.NotEqual(compact, other)
}

func TestDigestErrors(t *testing.T) {
	r := require.New(t)
	_, err := writer.Digest([]byte(`{"a":`), digest.SHA256)
	r.Error(err)
	_, err = writer.Digest([]byte(`{}`), digest.Algorithm("md5"))
	r.Error(err)
}

func TestDigestFiles(t *testing.T) {
	r := require.New(t)
	_, _, c := corpus(t)
	first, second := t.TempDir(), t.TempDir()

	names, err := writer.WriteCorpus(first, c)
	r.NoError(err)
	_, err = writer.WriteCorpus(second, c)
	r.NoError(err)

	a, err := writer.DigestFiles(first, names, digest.SHA256)
	r.NoError(err)
	b, err := writer.DigestFiles(second, names, digest.SHA512)
	r.NoError(err)
	r.Len(a, len(names))
	for i, d := range a {
		r.Equal(names[i], d.Name)
		r.Equal(digest.SHA512, b[i].Digest.Algorithm())
	}

	again, err := writer.DigestFiles(second, names, digest.SHA256)
	r.NoError(err)
	r.Equal(a, again)

	_, err = writer.DigestFiles(first, []string{"missing.json"}, digest.SHA256)
	r.Error(err)
}
