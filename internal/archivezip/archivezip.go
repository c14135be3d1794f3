// Package archivezip streams .dat entries out of a ULS ZIP archive without
// extracting them to disk, and sorts entries into the dependency order the
// importer needs.
package archivezip

import (
	"archive/zip"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/n6ul/ulsdb/internal/codes"
	"github.com/n6ul/ulsdb/internal/record"
)

// ErrDatFileNotFound is returned by StreamEntry when no archive entry
// resolves to the requested name, case-insensitively.
type ErrDatFileNotFound struct {
	Name string
}

func (e *ErrDatFileNotFound) Error() string {
	return fmt.Sprintf("archivezip: no entry resolves to %q", e.Name)
}

// Entry pairs a ZIP entry with the record type its filename implies, used
// to sort entries into dependency order before import.
type Entry struct {
	Name string
	Type codes.RecordType
	file *zip.File
}

// Archive is a seekable ZIP archive opened for streaming reads.
type Archive struct {
	zr *zip.ReadCloser
}

// Open opens the ZIP archive at path. Callers must Close it when done.
func Open(path string) (*Archive, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("archivezip: open %s: %w", path, err)
	}
	return &Archive{zr: zr}, nil
}

// Close releases the underlying ZIP handle.
func (a *Archive) Close() error {
	return a.zr.Close()
}

// ListDatFiles returns every entry whose name ends in ".dat"
// case-insensitively, sorted by import dependency priority (HD < EN < AM <
// everything else) and then by name within a priority tier for
// determinism.
func (a *Archive) ListDatFiles() []Entry {
	var entries []Entry
	for _, f := range a.zr.File {
		if !strings.HasSuffix(strings.ToLower(f.Name), ".dat") {
			continue
		}
		entries = append(entries, Entry{
			Name: f.Name,
			Type: datEntryRecordType(f.Name),
			file: f,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		pi, pj := entries[i].Type.ImportPriority(), entries[j].Type.ImportPriority()
		if pi != pj {
			return pi < pj
		}
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// datEntryRecordType guesses the record type an entry's filename encodes
// (e.g. "HD.dat" or "l_amat_HD.dat" both carry "HD" as their base name).
// Entries whose base name isn't a recognized two-letter tag sort into the
// trailing priority bucket alongside the non-principal record types -
// ListDatFiles never fails to enumerate an entry over this.
func datEntryRecordType(name string) codes.RecordType {
	base := name
	if i := strings.LastIndexAny(base, `/\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".dat")
	base = strings.TrimSuffix(base, ".DAT")
	base = strings.ToUpper(base)
	if rt, ok := codes.ParseRecordType(base); ok {
		return rt
	}
	if i := strings.LastIndexByte(base, '_'); i >= 0 {
		if rt, ok := codes.ParseRecordType(base[i+1:]); ok {
			return rt
		}
	}
	return codes.RecordType(base)
}

// StreamEntry resolves name case-insensitively (exact match first,
// uppercase fallback) and returns a read-only stream straight through the
// decompressor - no temp file is ever written.
func (a *Archive) StreamEntry(name string) (io.ReadCloser, error) {
	for _, f := range a.zr.File {
		if f.Name == name {
			return f.Open()
		}
	}
	upper := strings.ToUpper(name)
	for _, f := range a.zr.File {
		if strings.ToUpper(f.Name) == upper {
			return f.Open()
		}
	}
	return nil, &ErrDatFileNotFound{Name: name}
}

// ProcessDATStreaming runs a DAT reader over the named entry and invokes
// fn for each record it yields. fn returns false to abort early. It
// returns the reader's accumulated parse errors alongside any fatal
// stream error.
func (a *Archive) ProcessDATStreaming(name string, fn func(record.Record) bool) ([]record.ParseError, error) {
	rc, err := a.StreamEntry(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	r := record.NewReader(rc)
	if err := r.Each(fn); err != nil {
		return r.ParseErrors(), err
	}
	return r.ParseErrors(), nil
}

// ProcessEntry is a convenience wrapper for an already-resolved Entry,
// avoiding a second name-resolution pass when the caller already holds
// the Entry from ListDatFiles.
func (a *Archive) ProcessEntry(e Entry, fn func(record.Record) bool) ([]record.ParseError, error) {
	rc, err := e.file.Open()
	if err != nil {
		return nil, fmt.Errorf("archivezip: open entry %s: %w", e.Name, err)
	}
	defer rc.Close()

	r := record.NewReader(rc)
	if err := r.Each(fn); err != nil {
		return r.ParseErrors(), err
	}
	return r.ParseErrors(), nil
}
