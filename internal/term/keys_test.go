package term

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitDone(t *testing.T, w *KeyWatch) {
	t.Helper()
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("key reader did not return")
	}
}

func TestWatchKeysStopKeys(t *testing.T) {
	tests := []struct {
		name  string
		input string
		cause error
	}{
		{"ctrl-c", "\x03", ErrInterrupt},
		{"q after other keys", "xyq", ErrQuit},
		{"capital q", "Q", ErrQuit},
		{"lone esc", "\x1b", ErrQuit},
		{"ctrl-c wins over later q", "a\x03q", ErrInterrupt},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WatchKeys(context.Background(), strings.NewReader(tt.input))
			defer w.Stop()

			waitDone(t, w)
			require.Error(t, w.Context().Err())
			assert.ErrorIs(t, w.Cause(), tt.cause)
			assert.Equal(t, tt.cause == ErrQuit, w.Quit())
		})
	}
}

func TestWatchKeysIgnoresOtherInput(t *testing.T) {
	for _, input := range []string{"", "abc", "\x1b[A", "\x1b[B\r\n"} {
		w := WatchKeys(context.Background(), strings.NewReader(input))
		waitDone(t, w)
		assert.NoError(t, w.Context().Err(), "%q", input)
		assert.NoError(t, w.Cause())
		w.Stop()
	}
}

func TestWatchKeysFollowsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	w := WatchKeys(parent, nil)
	defer w.Stop()

	waitDone(t, w)
	assert.NoError(t, w.Context().Err())
	cancel()
	assert.ErrorIs(t, w.Context().Err(), context.Canceled)
	assert.False(t, w.Quit())
}

// blockingReader blocks in Read until cancelled, like a terminal nobody
// is typing into.
type blockingReader struct {
	once      sync.Once
	cancelled chan struct{}
	closed    bool
}

func newBlockingReader() *blockingReader {
	return &blockingReader{cancelled: make(chan struct{})}
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.cancelled
	return 0, errors.New("read canceled")
}

func (r *blockingReader) Cancel() bool {
	r.once.Do(func() { close(r.cancelled) })
	return true
}

func (r *blockingReader) Close() error {
	r.closed = true
	return nil
}

func TestStopUnblocksCancelableReader(t *testing.T) {
	r := newBlockingReader()
	w := WatchKeys(context.Background(), r)

	select {
	case <-w.Done():
		t.Fatal("reader returned before Stop")
	case <-time.After(20 * time.Millisecond):
	}

	w.Stop()
	select {
	case <-w.Done():
	default:
		t.Fatal("Stop returned before the reader")
	}
	assert.True(t, r.closed)
	assert.ErrorIs(t, w.Context().Err(), context.Canceled)
	assert.False(t, w.Quit())

	assert.NotPanics(t, w.Stop)
}

func TestWatchKeysDeliveredLater(t *testing.T) {
	pr, pw := io.Pipe()
	w := WatchKeys(context.Background(), pr)
	defer w.Stop()

	_, err := pw.Write([]byte("j"))
	require.NoError(t, err)
	assert.NoError(t, w.Context().Err())

	go pw.Write([]byte{keyEsc})
	select {
	case <-w.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("esc did not stop the watch")
	}
	assert.True(t, w.Quit())
}

func TestWatchOnBackends(t *testing.T) {
	v := NewVirtual(10, 4)
	w := Watch(context.Background(), v)
	waitDone(t, w)
	assert.NoError(t, w.Context().Err(), "no input means nothing to watch")
	w.Stop()

	v.SetInput(strings.NewReader("q"))
	w = Watch(context.Background(), v)
	defer w.Stop()
	waitDone(t, w)
	assert.True(t, w.Quit())
}
