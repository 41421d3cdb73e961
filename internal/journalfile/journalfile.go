// Package journalfile reads and writes whole journal files. Files ending in
// ".xz" are compressed transparently, and the form (XML tree or flat text) is
// chosen from the extension that remains.
package journalfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/aidanlsb/insight/internal/format"
	"github.com/aidanlsb/insight/internal/model"
)

// CompressedExt marks an xz-compressed file.
const CompressedExt = ".xz"

// ErrUnsupported is returned for forms that cannot be read back, or written from entries alone.
var ErrUnsupported = errors.New("unsupported journal form")

// Kind is the on-disk form of a journal file.
type Kind int

const (
	KindXML Kind = iota
	KindText
	KindHTML
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindHTML:
		return "html"
	default:
		return "xml"
	}
}

// ParseKind maps a format name to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "xml":
		return KindXML, nil
	case "text", "txt":
		return KindText, nil
	case "html":
		return KindHTML, nil
	}
	return KindXML, fmt.Errorf("unknown journal format %q (use xml, text or html)", name)
}

// KindOf infers the form from the file name. Unknown extensions are treated as XML.
func KindOf(path string) Kind {
	name := strings.ToLower(strings.TrimSuffix(path, CompressedExt))
	switch filepath.Ext(name) {
	case ".txt", ".text":
		return KindText
	case ".html", ".htm":
		return KindHTML
	default:
		return KindXML
	}
}

// IsCompressed reports whether path names an xz-compressed file.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedExt)
}

// Read returns the whole, decompressed contents of path.
func Read(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if IsCompressed(path) {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open xz stream %s: %w", path, err)
		}
		r = xr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// Write atomically replaces path with data, compressing it when path ends in ".xz".
func Write(path string, data []byte) error {
	if IsCompressed(path) {
		var buf bytes.Buffer
		xw, err := xz.NewWriter(&buf)
		if err != nil {
			return fmt.Errorf("create xz stream: %w", err)
		}
		if _, err := xw.Write(data); err != nil {
			return fmt.Errorf("compress %s: %w", path, err)
		}
		if err := xw.Close(); err != nil {
			return fmt.Errorf("compress %s: %w", path, err)
		}
		data = buf.Bytes()
	}
	return WriteAtomic(path, data, 0)
}

// Load reads the entries stored at path. A missing file yields an error
// matching os.ErrNotExist. References are returned as stored; flat text
// files carry none.
func Load(path string) ([]*model.Entry, error) {
	data, err := Read(path)
	if err != nil {
		return nil, err
	}
	return Decode(KindOf(path), data)
}

// Decode parses data of the given kind.
func Decode(kind Kind, data []byte) ([]*model.Entry, error) {
	switch kind {
	case KindText:
		return format.ParseFlatText(string(data)), nil
	case KindXML:
		return format.ReadEntries(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind)
}

// Save writes entries to path in the form its extension names. Saving zero
// entries as flat text fails with format.ErrNoEntries.
func Save(path string, entries []*model.Entry) error {
	data, err := Encode(KindOf(path), entries)
	if err != nil {
		return err
	}
	return Write(path, data)
}

// Encode renders entries in the given form. HTML needs the reverse index and
// is produced by format.BuildHTML instead.
func Encode(kind Kind, entries []*model.Entry) ([]byte, error) {
	switch kind {
	case KindText:
		text, err := format.BuildFlatText(entries)
		if err != nil {
			return nil, err
		}
		return []byte(text), nil
	case KindXML:
		var buf bytes.Buffer
		if err := format.WriteEntries(&buf, entries); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind)
}
