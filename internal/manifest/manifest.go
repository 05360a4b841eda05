package manifest

import (
	"bufio"
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

const (
	// FileName is the manifest written into the output directory.
	FileName = "matched.manifest"

	// DigestFileName holds the MD5 of the manifest.
	DigestFileName = "matched.manifest.md5"
)

// ErrDigestMismatch is returned by Verify when the directory no longer
// matches the recorded digest.
var ErrDigestMismatch = errors.New("manifest digest mismatch")

// Entry is one line of the manifest.
type Entry struct {
	// Path is relative to the manifest directory, with "/" separators.
	Path string `json:"path"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`
}

// Manifest is a rendered manifest and its digest.
type Manifest struct {
	Entries []Entry `json:"entries"`
	Digest  string  `json:"digest"`
	Data    []byte  `json:"-"`
}

// Collect lists every regular file under dir, excluding manifest files.
//
// Symbolic links to regular files are listed with the size of their target.
// The result is sorted by path component.
//
// # Errors
//
// Returns an error if dir cannot be walked or a file cannot be stat'ed.
func Collect(dir string) ([]Entry, error) {
	var entries []Entry
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || excluded(d.Name()) {
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		entries = append(entries, Entry{Path: filepath.ToSlash(rel), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	sortEntries(entries)
	return entries, nil
}

// Render formats entries as manifest text. Entries are sorted first, so the
// output does not depend on the order they were collected in.
func Render(entries []Entry) []byte {
	sorted := append([]Entry(nil), entries...)
	sortEntries(sorted)

	var buf bytes.Buffer
	for i, e := range sorted {
		if i > 0 {
			buf.WriteByte('\n')
		}
		buf.WriteString(e.Path)
		buf.WriteByte('\t')
		buf.WriteString(strconv.FormatInt(e.Size, 10))
	}
	buf.WriteByte('\n')
	return buf.Bytes()
}

// Digest returns the lowercase hex MD5 of data.
func Digest(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// DigestLine formats the contents of the digest file for sum.
func DigestLine(sum string) string {
	return sum + "  " + FileName + "\n"
}

// Build collects dir and renders its manifest without writing anything.
func Build(dir string) (*Manifest, error) {
	entries, err := Collect(dir)
	if err != nil {
		return nil, err
	}
	data := Render(entries)
	return &Manifest{Entries: entries, Digest: Digest(data), Data: data}, nil
}

// Write builds the manifest of dir and writes both the manifest and its
// digest file into dir, replacing earlier ones.
//
// # Errors
//
// Returns an error if the directory cannot be listed or either file cannot
// be written.
func Write(dir string) (*Manifest, error) {
	m, err := Build(dir)
	if err != nil {
		return nil, err
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), m.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, DigestFileName), []byte(DigestLine(m.Digest)), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write manifest digest: %w", err)
	}
	return m, nil
}

// ReadDigest reads the hex digest from a digest file. Only the first field of
// the first line is used, so files written by md5sum are accepted too.
//
// # Errors
//
// Returns an error if the file cannot be read or does not start with a
// 32 character hex digest.
func ReadDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open digest file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("failed to read digest file: %w", err)
		}
		return "", fmt.Errorf("digest file %s is empty", path)
	}

	fields := strings.Fields(sc.Text())
	if len(fields) == 0 {
		return "", fmt.Errorf("digest file %s has no digest", path)
	}
	sum := strings.ToLower(fields[0])
	if len(sum) != 2*md5.Size {
		return "", fmt.Errorf("digest file %s: %q is not an MD5 digest", path, fields[0])
	}
	if _, err := hex.DecodeString(sum); err != nil {
		return "", fmt.Errorf("digest file %s: %q is not an MD5 digest", path, fields[0])
	}
	return sum, nil
}

// Verify recomputes the manifest of dir and compares its digest with the
// one stored in digestPath. An empty digestPath means the digest file inside
// dir.
//
// Returns:
//   - *Manifest: The freshly computed manifest, also on mismatch.
//   - error: ErrDigestMismatch (wrapped) if the digests differ.
func Verify(dir, digestPath string) (*Manifest, error) {
	if digestPath == "" {
		digestPath = filepath.Join(dir, DigestFileName)
	}

	want, err := ReadDigest(digestPath)
	if err != nil {
		return nil, err
	}
	m, err := Build(dir)
	if err != nil {
		return nil, err
	}
	if m.Digest != want {
		return m, fmt.Errorf("%w: recorded %s, computed %s", ErrDigestMismatch, want, m.Digest)
	}
	return m, nil
}

func excluded(name string) bool {
	return name == FileName || name == DigestFileName
}

// sortEntries orders entries component by component, so "a/b" sorts before
// "a-b" even though '-' < '/'.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return lessByComponent(entries[i].Path, entries[j].Path)
	})
}

func lessByComponent(a, b string) bool {
	pa := strings.Split(a, "/")
	pb := strings.Split(b, "/")
	for k := 0; k < len(pa) && k < len(pb); k++ {
		if pa[k] != pb[k] {
			return pa[k] < pb[k]
		}
	}
	return len(pa) < len(pb)
}
