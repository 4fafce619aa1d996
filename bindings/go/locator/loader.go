package locator

import (
	"fmt"
	"io/fs"
	"net/url"
	"path"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// fsLoader resolves every schema URL to the file of the same base name in
// fsys, so that a corpus generated for any base URI can be read from a local
// directory.
type fsLoader struct {
	fsys fs.FS
}

var _ jsonschema.URLLoader = (*fsLoader)(nil)

func (l *fsLoader) Load(rawURL string) (any, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	name := path.Base(u.Path)
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", rawURL, err)
	}
	defer f.Close()
	return jsonschema.UnmarshalJSON(f)
}

// documentURL is the URL a shard is compiled under: its $id when absolute,
// otherwise a file URL of its name.
func documentURL(file, id string) string {
	if u, err := url.Parse(id); err == nil && u.IsAbs() {
		return id
	}
	return "file:///" + file
}
