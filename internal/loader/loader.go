// Package loader reads files into frames.
package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/zjrosen/zecora/internal/codepoint"
	"github.com/zjrosen/zecora/internal/frame"
	"github.com/zjrosen/zecora/internal/log"
)

// Resolver turns a path into the canonical absolute path stored on a frame.
type Resolver func(path string) (string, error)

// Loader opens files into a frame registry.
type Loader struct {
	fs      afero.Fs
	resolve Resolver
	decoder codepoint.Decoder
}

// Option configures a Loader.
type Option func(*Loader)

// WithFs sets the filesystem files are read from.
func WithFs(fsys afero.Fs) Option {
	return func(l *Loader) { l.fs = fsys }
}

// WithResolver sets the canonical path resolver.
func WithResolver(r Resolver) Option {
	return func(l *Loader) { l.resolve = r }
}

// WithDecodePolicy sets how malformed UTF-8 is decoded.
func WithDecodePolicy(p codepoint.Policy) Option {
	return func(l *Loader) { l.decoder = codepoint.Decoder{Policy: p} }
}

// New returns a loader reading from the OS filesystem.
func New(opts ...Option) *Loader {
	l := &Loader{
		fs:      afero.NewOsFs(),
		resolve: Canonical,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Fs returns the filesystem the loader reads from.
func (l *Loader) Fs() afero.Fs { return l.fs }

// Canonical resolves path to an absolute path with symlinks evaluated.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// Open loads path into a new frame of reg and makes it current.
//
// The already-open check runs first against the raw argument, so two
// spellings of one file only converge once the canonical path is known.
// A path that does not exist yet but whose parent directory does opens as
// an empty document bound to the literal path. On failure reg is unchanged.
func (l *Loader) Open(reg *frame.Registry, path string) (frame.Handle, error) {
	if h, ok := reg.Find(path); ok {
		log.Debug(log.CatLoad, "already open", "path", path, "handle", int(h))
		return h, &AlreadyOpenError{Handle: h, Path: path}
	}

	info, err := l.fs.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || path == "" {
			log.ErrorErr(log.CatLoad, "stat failed", err, "path", path)
			return frame.None, &SystemError{Op: "stat", Path: path, Err: err}
		}
		if err := l.checkParent(path); err != nil {
			log.ErrorErr(log.CatLoad, "parent directory unusable", err, "path", path)
			return frame.None, &SystemError{Op: "stat", Path: path, Err: err}
		}
		h := reg.Add(frame.NewWithLines(path, nil))
		log.Info(log.CatLoad, "opened new file", "path", path, "handle", int(h))
		return h, nil
	}
	if !info.Mode().IsRegular() {
		return frame.None, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	data, err := l.read(path, info.Size())
	if err != nil {
		log.ErrorErr(log.CatLoad, "read failed", err, "path", path)
		return frame.None, err
	}
	lines := l.split(data)

	canonical, err := l.resolve(path)
	if err != nil {
		log.ErrorErr(log.CatLoad, "canonical path failed", err, "path", path)
		return frame.None, &SystemError{Op: "realpath", Path: path, Err: err}
	}
	if h, ok := reg.Find(canonical); ok {
		log.Debug(log.CatLoad, "already open under canonical path", "path", path, "canonical", canonical)
		return h, &AlreadyOpenError{Handle: h, Path: canonical}
	}

	h := reg.Add(frame.NewWithLines(canonical, lines))
	log.Info(log.CatLoad, "opened file", "path", canonical, "lines", len(lines), "bytes", len(data))
	return h, nil
}

// ReadLines reads path and splits it into lines the way Open does, without
// touching any registry. Used to compare a frame against the file on disk.
func (l *Loader) ReadLines(path string) ([]*frame.Line, error) {
	info, err := l.fs.Stat(path)
	if err != nil {
		return nil, &SystemError{Op: "stat", Path: path, Err: err}
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	data, err := l.read(path, info.Size())
	if err != nil {
		return nil, err
	}
	return l.split(data), nil
}

// checkParent verifies that a not-yet-existing path can be created: it has
// no directory part, or its directory exists.
func (l *Loader) checkParent(path string) error {
	dir, ok := parentDir(path)
	if !ok {
		return nil
	}
	info, err := l.fs.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: %w", dir, fs.ErrNotExist)
	}
	return nil
}

// parentDir drops trailing separators and then the last path component.
func parentDir(path string) (string, bool) {
	i := len(path)
	for i > 0 && path[i-1] == '/' {
		i--
	}
	for i > 0 && path[i-1] != '/' {
		i--
	}
	if i == 0 {
		return "", false
	}
	dir := strings.TrimRight(path[:i], "/")
	if dir == "" {
		dir = "/"
	}
	return dir, true
}

// read fills a buffer of the reported size, tolerating short reads.
func (l *Loader) read(path string, size int64) ([]byte, error) {
	f, err := l.fs.Open(path)
	if err != nil {
		return nil, &SystemError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, size)
	n := 0
	for n < len(buf) {
		m, err := f.Read(buf[n:])
		n += m
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrReadFailed, path, err)
		}
	}
	return buf[:n], nil
}

// split cuts data on raw '\n' bytes and decodes every span on its own, so
// decoder state never crosses a line boundary.
func (l *Loader) split(data []byte) []*frame.Line {
	lines := make([]*frame.Line, 0, bytes.Count(data, []byte{'\n'})+1)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			return append(lines, frame.LineFromRunes(l.decoder.Decode(data)))
		}
		lines = append(lines, frame.LineFromRunes(l.decoder.Decode(data[:i])))
		data = data[i+1:]
	}
}
