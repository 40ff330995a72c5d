package ingest

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// sniffLen is how much of the content Detect looks at.
const sniffLen = 1024

var (
	fitSignature = []byte(".FIT")
	utf8BOM      = []byte{0xEF, 0xBB, 0xBF}
)

// Detect picks the format from the leading bytes of a file. The file name
// extension is only consulted when the content is XML without a visible gpx
// root in the sniffed prefix.
func Detect(head []byte, filename string) (string, error) {
	if len(head) >= 12 && bytes.Equal(head[8:12], fitSignature) {
		return FormatFIT, nil
	}

	text := bytes.TrimLeft(bytes.TrimPrefix(head, utf8BOM), " \t\r\n")
	if bytes.Contains(text, []byte("<gpx")) {
		return FormatGPX, nil
	}
	if bytes.HasPrefix(text, []byte("<?xml")) && strings.EqualFold(filepath.Ext(filename), ".gpx") {
		return FormatGPX, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(filename))
}

// AdapterFor returns the adapter of a format name.
func AdapterFor(format string) (Adapter, error) {
	switch format {
	case FormatGPX:
		return GPXAdapter{}, nil
	case FormatFIT:
		return FITAdapter{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Parse sniffs the content of r and decodes it with the matching adapter.
func Parse(r io.Reader, filename string) (*Result, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	format, err := Detect(head, filename)
	if err != nil {
		return nil, err
	}
	adapter, err := AdapterFor(format)
	if err != nil {
		return nil, err
	}
	return adapter.Parse(br)
}

// ParseFile opens path and decodes it.
func ParseFile(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}
