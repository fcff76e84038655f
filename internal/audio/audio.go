// Package audio manages the audio files referenced by sentences. Files are
// copied into a library directory and referred to by an opaque handle; they
// are never opened for playback or decoded.
package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/f3rmion/promptscore/internal/log"
	"github.com/google/uuid"
)

// ErrSourceMissing is returned when the file to attach does not exist.
var ErrSourceMissing = errors.New("audio source not found")

// DefaultExt is used when the source file has no extension.
const DefaultExt = ".m4a"

// Extensions lists the file types offered when picking a recording. Attach
// itself accepts any file.
var Extensions = []string{".m4a", ".mp3", ".wav", ".aac", ".aiff", ".caf", ".flac", ".ogg"}

// Library is a directory of copied audio files.
type Library struct {
	dir string
}

// NewLibrary returns a library rooted at dir. The directory is created on
// first attach.
func NewLibrary(dir string) *Library {
	return &Library{dir: dir}
}

// Dir returns the library directory.
func (l *Library) Dir() string {
	return l.dir
}

// HandleFor returns the handle a sentence's audio is stored under.
func HandleFor(sentenceID uuid.UUID, ext string) string {
	if ext == "" {
		ext = DefaultExt
	}
	return "audio_" + sentenceID.String() + strings.ToLower(ext)
}

// Attach copies src into the library for sentenceID, replacing any earlier
// file for that sentence, and returns the new handle. On failure nothing in
// the library changes.
func (l *Library) Attach(ctx context.Context, sentenceID uuid.UUID, src string) (string, error) {
	p, err := l.Stage(ctx, sentenceID, src)
	if err != nil {
		return "", err
	}
	if err := p.Commit(); err != nil {
		return "", err
	}
	return p.Handle(), nil
}

// Pending is a recording copied into the library but not yet in place.
// Earlier files for the sentence stay untouched until Commit.
type Pending struct {
	lib        *Library
	sentenceID uuid.UUID
	handle     string
	tmp        string
}

// Stage copies src next to the library files without replacing anything.
// Callers persist the new handle first and then Commit, or Discard.
func (l *Library) Stage(ctx context.Context, sentenceID uuid.UUID, src string) (*Pending, error) {
	info, err := os.Stat(src)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}
	if err != nil {
		return nil, fmt.Errorf("checking audio source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("audio source %s is a directory", src)
	}

	if err := os.MkdirAll(l.dir, 0755); err != nil {
		return nil, fmt.Errorf("creating audio directory: %w", err)
	}

	tmp, err := l.copyToTemp(ctx, src)
	if err != nil {
		return nil, err
	}
	return &Pending{
		lib:        l,
		sentenceID: sentenceID,
		handle:     HandleFor(sentenceID, filepath.Ext(src)),
		tmp:        tmp,
	}, nil
}

// Handle returns the handle the recording will have once committed.
func (p *Pending) Handle() string {
	return p.handle
}

// Commit moves the copy into place and removes the sentence's older files.
func (p *Pending) Commit() error {
	if err := os.Rename(p.tmp, p.lib.Path(p.handle)); err != nil {
		_ = os.Remove(p.tmp)
		return fmt.Errorf("storing audio: %w", err)
	}
	// Other extensions from earlier attachments would be orphaned.
	p.lib.removeSentence(p.sentenceID, p.handle)
	log.Info(log.CatAudio, "stored audio", "sentence", p.sentenceID, "handle", p.handle)
	return nil
}

// Discard drops the copy and leaves the library as it was.
func (p *Pending) Discard() {
	if err := os.Remove(p.tmp); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.ErrorErr(log.CatAudio, "removing staged audio", err, "path", p.tmp)
	}
}

// Detach deletes the file behind handle. A missing file is not an error.
func (l *Library) Detach(handle string) error {
	err := os.Remove(l.Path(handle))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing audio %s: %w", handle, err)
	}
	return nil
}

// Path resolves a handle to a file inside the library.
func (l *Library) Path(handle string) string {
	return filepath.Join(l.dir, filepath.Base(handle))
}

// Exists reports whether the file behind handle is present.
func (l *Library) Exists(handle string) bool {
	_, err := os.Stat(l.Path(handle))
	return err == nil
}

func (l *Library) copyToTemp(ctx context.Context, src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening audio source: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp(l.dir, ".attach-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	_, copyErr := io.Copy(out, &ctxReader{ctx: ctx, r: in})
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(out.Name())
		return "", fmt.Errorf("copying audio: %w", errors.Join(copyErr, closeErr))
	}
	return out.Name(), nil
}

func (l *Library) removeSentence(sentenceID uuid.UUID, keep string) {
	matches, err := filepath.Glob(filepath.Join(l.dir, "audio_"+sentenceID.String()+".*"))
	if err != nil {
		return
	}
	for _, m := range matches {
		if filepath.Base(m) == keep {
			continue
		}
		if err := os.Remove(m); err != nil {
			log.ErrorErr(log.CatAudio, "removing stale audio", err, "path", m)
		}
	}
}

// ctxReader stops a copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
