package vobj

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"veritas/internal/libname"
)

// Ext is the compiled library file extension.
const Ext = ".vlo"

// magic opens every library file; the last byte is the format version.
// Bump the version whenever the envelope layout changes.
var magic = [4]byte{'V', 'L', 'O', 0x01}

// DepEntry records one direct dependency as it was known at write time.
type DepEntry struct {
	Name   libname.Name
	Digest Digest
}

// Summary is the primary on-disk record. The payload is stored lightened;
// Objects is an opaque auxiliary table carried for the checking collaborator.
type Summary struct {
	Name    libname.Name
	Payload *Term
	Objects []byte
	Deps    []DepEntry
	Imports []libname.Name
}

// File is one fully decoded library file: the summary, the content digest of
// the summary's encoding, and the side table for payload reconstruction.
type File struct {
	Summary Summary
	Digest  Digest
	Table   []*Term
}

// Envelope layout:
//
//	magic[4] | msgpack(Summary) | msgpack(Digest) | msgpack(Table)
//
// The digest covers the Summary encoding byte-for-byte, so the payload is
// hashed in its lightened form and the digest is stable across re-reads.

// WriteFile serializes a library to path. The payload is lightened first;
// the write goes through a temp file and an atomic rename.
func WriteFile(path string, name libname.Name, payload *Term, objects []byte, deps []DepEntry, imports []libname.Name) (Digest, error) {
	light, table := Lighten(payload)
	summary := Summary{
		Name:    name,
		Payload: light,
		Objects: objects,
		Deps:    deps,
		Imports: imports,
	}

	var buf bytes.Buffer
	if err := msgpack.NewEncoder(&buf).Encode(&summary); err != nil {
		return Digest{}, fmt.Errorf("%s: encode summary: %w", path, err)
	}
	digest := HashBytes(buf.Bytes())

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Digest{}, err
	}
	f, err := os.CreateTemp(filepath.Dir(path), "tmp-*")
	if err != nil {
		return Digest{}, err
	}
	closed := false
	defer func() {
		if !closed {
			f.Close()
		}
		if err := os.Remove(f.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			fmt.Printf("failed to remove temp file: %v", err)
		}
	}()

	if _, err := f.Write(magic[:]); err != nil {
		return Digest{}, err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		return Digest{}, err
	}
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(digest); err != nil {
		return Digest{}, err
	}
	if err := enc.Encode(table); err != nil {
		return Digest{}, err
	}
	closed = true
	if err := f.Close(); err != nil {
		return Digest{}, err
	}
	// Атомарная замена
	if err := os.Rename(f.Name(), path); err != nil {
		return Digest{}, err
	}
	return digest, nil
}

// ReadFile decodes the library stored at path. When expect is non-empty the
// embedded name must match it exactly, otherwise the read fails with
// NameClashError. The handle is closed before returning on every path.
func ReadFile(path string, expect libname.Name) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			fmt.Printf("failed to close %s: %v", path, closeErr)
		}
	}()

	var got [4]byte
	if _, err := io.ReadFull(f, got[:]); err != nil {
		return nil, &BadMagicError{Path: path}
	}
	if got != magic {
		return nil, &BadMagicError{Path: path}
	}

	dec := msgpack.NewDecoder(f)
	var out File
	if err := dec.Decode(&out.Summary); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if expect != libname.Empty && out.Summary.Name != expect {
		return nil, &NameClashError{Expected: expect, Found: out.Summary.Name, Path: path}
	}
	if err := dec.Decode(&out.Digest); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	if err := dec.Decode(&out.Table); err != nil {
		return nil, &CorruptError{Path: path, Err: err}
	}
	return &out, nil
}
