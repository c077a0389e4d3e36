package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSweepRemovesExpired(t *testing.T) {
	s, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, s.Save("original_old_a.png", strings.NewReader("x")))
	require.NoError(t, s.Save("detected_old_a.png", strings.NewReader("x")))
	require.NoError(t, s.Save("original_new_b.png", strings.NewReader("x")))

	// Age two of the files past the retention window.
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(s.Path("original_old_a.png"), past, past))
	require.NoError(t, os.Chtimes(s.Path("detected_old_a.png"), past, past))

	sw := NewSweeper(s, time.Hour, time.Minute, zap.NewNop())
	assert.Equal(t, 2, sw.sweep(time.Now()))

	_, err = os.Stat(s.Path("original_old_a.png"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(s.Path("original_new_b.png"))
	assert.NoError(t, err)
}

func TestSweepSkipsDirectories(t *testing.T) {
	s, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(s.Path("nested"), 0o755))

	sw := NewSweeper(s, time.Nanosecond, time.Minute, zap.NewNop())
	assert.Equal(t, 0, sw.sweep(time.Now().Add(time.Hour)))

	_, err = os.Stat(s.Path("nested"))
	assert.NoError(t, err)
}

func TestRunStopsOnCancel(t *testing.T) {
	s, err := New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	sw := NewSweeper(s, time.Hour, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop after cancel")
	}
}
