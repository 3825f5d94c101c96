package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/chainsum/report"
)

var errStop = errors.New("stop watching")

func TestWatchRebuildsOnAppend(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "live.1.txt")
	writeFile(t, dir, "live.1.txt", "1 5 1.0\n1 4 2.0\n")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var rows []int
	err := newReporter(t).Watch(ctx, Request{Dir: dir}, 20*time.Millisecond, func(in *report.Input, err error) error {
		require.NoError(t, err)
		rows = append(rows, in.Chains[0].Rows)
		if len(rows) == 1 {
			f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
			require.NoError(t, err)
			_, err = f.WriteString("1 3 3.0\n")
			require.NoError(t, err)
			require.NoError(t, f.Close())

			return nil
		}

		return errStop
	})
	require.ErrorIs(t, err, errStop)
	require.Equal(t, []int{2, 3}, rows)
}

func TestWatchStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "idle.1.txt", "1 5 1.0\n")

	ctx, cancel := context.WithCancel(context.Background())
	emits := 0
	err := newReporter(t).Watch(ctx, Request{Dir: dir}, time.Millisecond, func(in *report.Input, err error) error {
		emits++
		cancel()

		return err
	})
	require.NoError(t, err)
	require.Equal(t, 1, emits)
}

func TestWatchRejectsInvalidRequest(t *testing.T) {
	err := newReporter(t).Watch(context.Background(), Request{}, 0, func(*report.Input, error) error {
		t.Fatal("emit called")
		return nil
	})
	require.Error(t, err)
}

func TestRelevant(t *testing.T) {
	ev := func(name string, op fsnotify.Op) fsnotify.Event {
		return fsnotify.Event{Name: filepath.Join("/chains", name), Op: op}
	}

	require.True(t, relevant(ev("lcdm.1.txt", fsnotify.Write), "lcdm"))
	require.True(t, relevant(ev("lcdm.paramnames", fsnotify.Create), "lcdm"))
	require.True(t, relevant(ev("lcdm.2.A.txt.zst", fsnotify.Rename), "lcdm"))
	require.False(t, relevant(ev("lcdm.1.txt", fsnotify.Chmod), "lcdm"))
	require.False(t, relevant(ev("wcdm.1.txt", fsnotify.Write), "lcdm"))
	require.False(t, relevant(ev("lcdmx.1.txt", fsnotify.Write), "lcdm"))
	require.True(t, relevant(ev("wcdm.1.txt", fsnotify.Write), ""))
	require.False(t, relevant(ev("notes.md", fsnotify.Write), ""))
}
