package fileutil

import (
	"bytes"
	"io"
	"os"

	"github.com/thoreinstein/prerelease/internal/errors"
)

// MaxFileSize bounds what validators load into memory. Larger files are
// skipped.
const MaxFileSize = 1 << 20

// binarySniffLen is how much of a file is inspected for NUL bytes.
const binarySniffLen = 8000

var (
	// ErrFileTooLarge is returned for files above MaxFileSize.
	ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

	// ErrBinaryFile is returned for files that look like binary content.
	ErrBinaryFile = errors.New("binary file")
)

// ReadFileWithLimit reads path, failing with ErrFileTooLarge when it holds
// more than MaxFileSize bytes.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	// The size may change between Stat and the read.
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	switch {
	case err != nil:
		return nil, errors.Wrap(err, "reading file")
	case len(data) > MaxFileSize:
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// ReadTextFile reads a file with ReadFileWithLimit and rejects binary content
// with ErrBinaryFile.
func ReadTextFile(path string) ([]byte, error) {
	data, err := ReadFileWithLimit(path)
	if err != nil {
		return nil, err
	}
	if IsBinary(data) {
		return nil, ErrBinaryFile
	}
	return data, nil
}

// IsBinary reports whether data contains a NUL byte in its leading segment.
func IsBinary(data []byte) bool {
	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}
