package palette

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// BundledName is the file name of the embedded reference palette.
const BundledName = "colors.txt"

//go:embed colors.txt
var bundled embed.FS

// Source opens palette resource text.
type Source interface {
	Open() (io.ReadCloser, error)
	String() string
}

// Bundled returns the reference palette compiled into the binary.
func Bundled() Source {
	return fsSource{fsys: bundled, name: BundledName, label: "bundled"}
}

// FS returns a source reading name from fsys.
func FS(fsys fs.FS, name string) Source {
	return fsSource{fsys: fsys, name: name, label: "fs"}
}

// File returns a source reading the palette at path.
func File(path string) Source {
	return fileSource(path)
}

// Text returns a source over an in-memory table.
func Text(table string) Source {
	return textSource(table)
}

type fsSource struct {
	fsys  fs.FS
	name  string
	label string
}

func (s fsSource) Open() (io.ReadCloser, error) {
	return s.fsys.Open(s.name)
}

func (s fsSource) String() string {
	return s.label + ":" + s.name
}

type fileSource string

func (s fileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(s))
}

func (s fileSource) String() string { return string(s) }

type textSource string

func (s textSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s))), nil
}

func (s textSource) String() string { return "text" }

// Load reads and parses the palette from src.
func Load(src Source) (*Palette, error) {
	if src == nil {
		return nil, ErrNotFound
	}
	rc, err := src.Open()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, src)
		}
		return nil, fmt.Errorf("open palette %s: %w", src, err)
	}
	defer rc.Close()

	p, err := Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("load palette %s: %w", src, err)
	}
	return p, nil
}
