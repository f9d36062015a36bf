package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"mdcombine/pkg/combine"
)

type notification struct {
	Level Level
	Title string
	Msg   string
}

type recorder struct {
	statuses      []string
	notifications []notification
}

func (r *recorder) Status(msg string) { r.statuses = append(r.statuses, msg) }

func (r *recorder) Notify(level Level, title, msg string) {
	r.notifications = append(r.notifications, notification{level, title, msg})
}

func (r *recorder) lastStatus() string {
	if len(r.statuses) == 0 {
		return ""
	}
	return r.statuses[len(r.statuses)-1]
}

// blockingCombiner holds Combine open until release is closed.
type blockingCombiner struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingCombiner) Combine(_ context.Context, entries []string, dest string) (combine.Result, error) {
	close(b.started)
	<-b.release
	return combine.Result{Files: len(entries), Destination: dest}, nil
}

type stubExpander struct {
	out []string
	err error
}

func (e stubExpander) Expand([]string) ([]string, error) { return e.out, e.err }

func newTestSession(t *testing.T, c Combiner) (*Session, *recorder) {
	t.Helper()
	if c == nil {
		c = combine.New(combine.Options{Workers: 2}, nil)
	}
	rec := &recorder{}
	return New(c, rec, Options{DefaultExt: ".md"}, nil), rec
}

func TestNew_PostsReady(t *testing.T) {
	_, rec := newTestSession(t, nil)
	assert.Equal(t, []string{"Ready"}, rec.statuses)
}

func TestAdd(t *testing.T) {
	s, rec := newTestSession(t, nil)

	n, err := s.Add([]string{"/d/a.md", "/d/b.md"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "2 files loaded", rec.lastStatus())

	n, err = s.Add([]string{"/d/b.md", "/d/c.md"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "3 files loaded", rec.lastStatus())
	assert.Equal(t, []string{"a.md", "b.md", "c.md"}, s.Names())

	before := len(rec.statuses)
	n, err = s.Add(nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, rec.statuses, before, "empty selection posts nothing")
}

func TestAdd_UsesExpander(t *testing.T) {
	rec := &recorder{}
	s := New(nil, rec, Options{Expander: stubExpander{out: []string{"/x/1.md", "/x/2.md"}}}, nil)

	_, err := s.Add([]string{"/x"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/x/1.md", "/x/2.md"}, s.Entries())

	s.opts.Expander = stubExpander{err: errors.New("stat /y: no such file")}
	_, err = s.Add([]string{"/y"})
	require.Error(t, err)
	assert.Equal(t, "Error: stat /y: no such file", rec.lastStatus())
	assert.Len(t, s.Entries(), 2)
}

func TestRemove(t *testing.T) {
	s, rec := newTestSession(t, nil)
	_, err := s.Add([]string{"a.md", "b.md", "c.md"})
	require.NoError(t, err)

	require.NoError(t, s.RemoveSelected(), "no selection is a no-op")
	assert.Len(t, s.Entries(), 3)

	require.NoError(t, s.Select(1))
	require.NoError(t, s.RemoveSelected())
	assert.Equal(t, []string{"a.md", "c.md"}, s.Entries())
	assert.Equal(t, "2 files remaining", rec.lastStatus())
	assert.Equal(t, -1, s.Selected())

	require.NoError(t, s.Remove(0))
	assert.Equal(t, []string{"c.md"}, s.Entries())

	assert.Error(t, s.Remove(4))
	assert.Error(t, s.Select(4))
}

func TestMove(t *testing.T) {
	s, rec := newTestSession(t, nil)
	_, err := s.Add([]string{"/d/A.md", "/d/B.md", "/d/C.md"})
	require.NoError(t, err)

	require.NoError(t, s.Move(0, 2))
	assert.Equal(t, []string{"B.md", "C.md", "A.md"}, s.Names())
	assert.Equal(t, "Moved 'A.md' to position 3", rec.lastStatus())
	assert.Equal(t, 2, s.Selected())

	before := len(rec.statuses)
	require.NoError(t, s.Move(1, 1))
	require.NoError(t, s.Move(0, 3))
	require.NoError(t, s.Move(-1, 0))
	assert.Equal(t, []string{"B.md", "C.md", "A.md"}, s.Names())
	assert.Len(t, rec.statuses, before, "ignored drops post nothing")
}

func TestClear(t *testing.T) {
	s, rec := newTestSession(t, nil)
	_, err := s.Add([]string{"a.md"})
	require.NoError(t, err)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	assert.Empty(t, s.Entries())
	assert.Equal(t, "All files cleared", rec.lastStatus())
}

func TestGenerate_Success(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.md")
	require.NoError(t, os.WriteFile(a, []byte("alpha"), 0o644))

	s, rec := newTestSession(t, nil)
	_, err := s.Add([]string{a})
	require.NoError(t, err)

	res, err := s.Generate(context.Background(), filepath.Join(dir, "out"))
	require.NoError(t, err)

	out := filepath.Join(dir, "out.md")
	assert.Equal(t, out, res.Destination)
	assert.FileExists(t, out)
	assert.Equal(t, "Successfully combined 1 files to "+out, rec.lastStatus())
	require.Len(t, rec.notifications, 1)
	assert.Equal(t, notification{LevelInfo, "Success", "Combined markdown file created at:\n" + out}, rec.notifications[0])
}

func TestGenerate_Empty(t *testing.T) {
	s, rec := newTestSession(t, nil)

	_, err := s.Generate(context.Background(), "out.md")
	assert.ErrorIs(t, err, combine.ErrEmptyInput)
	require.Len(t, rec.notifications, 1)
	assert.Equal(t, LevelWarning, rec.notifications[0].Level)
	assert.Equal(t, "No Files", rec.notifications[0].Title)
}

func TestGenerate_Cancelled(t *testing.T) {
	s, rec := newTestSession(t, nil)
	_, err := s.Add([]string{"a.md"})
	require.NoError(t, err)

	before := len(rec.statuses)
	res, err := s.Generate(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, res)
	assert.Len(t, rec.statuses, before)
	assert.Empty(t, rec.notifications)
}

func TestGenerate_ErrorKeepsSessionUsable(t *testing.T) {
	dir := t.TempDir()
	s, rec := newTestSession(t, nil)
	_, err := s.Add([]string{filepath.Join(dir, "missing.md")})
	require.NoError(t, err)

	_, err = s.Generate(context.Background(), filepath.Join(dir, "out.md"))
	var readErr *combine.FileReadError
	require.ErrorAs(t, err, &readErr)

	assert.Contains(t, rec.lastStatus(), "Error: ")
	assert.Contains(t, rec.lastStatus(), "missing.md")
	require.Len(t, rec.notifications, 1)
	assert.Equal(t, LevelError, rec.notifications[0].Level)
	assert.Contains(t, rec.notifications[0].Msg, "Failed to create combined file:\n")

	require.NoError(t, s.Clear())
	_, err = s.Add([]string{"b.md"})
	assert.NoError(t, err)
}

func TestGenerate_BusyGuard(t *testing.T) {
	bc := &blockingCombiner{started: make(chan struct{}), release: make(chan struct{})}
	s, _ := newTestSession(t, bc)
	_, err := s.Add([]string{"a.md", "b.md"})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background(), "out.md")
		done <- err
	}()
	<-bc.started

	_, err = s.Add([]string{"c.md"})
	assert.ErrorIs(t, err, ErrBusy)
	assert.ErrorIs(t, s.Move(0, 1), ErrBusy)
	assert.ErrorIs(t, s.Remove(0), ErrBusy)
	assert.ErrorIs(t, s.Clear(), ErrBusy)
	_, err = s.Generate(context.Background(), "again.md")
	assert.ErrorIs(t, err, ErrBusy)

	close(bc.release)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"a.md", "b.md"}, s.Entries())
	assert.NoError(t, s.Move(0, 1))
}

func TestWithDefaultExt(t *testing.T) {
	assert.Equal(t, "out.md", WithDefaultExt("out", ".md"))
	assert.Equal(t, "out.txt", WithDefaultExt("out.txt", ".md"))
	assert.Equal(t, "out", WithDefaultExt("out", ""))
}

func TestGenerate_LogsFailureOnce(t *testing.T) {
	dir := t.TempDir()
	core, logs := observer.New(zapcore.DebugLevel)
	logger := zap.New(core)
	rec := &recorder{}
	s := New(combine.New(combine.Options{}, logger), rec, Options{}, logger)
	_, err := s.Add([]string{filepath.Join(dir, "missing.md")})
	require.NoError(t, err)

	_, err = s.Generate(context.Background(), filepath.Join(dir, "out.md"))
	require.Error(t, err)

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}
