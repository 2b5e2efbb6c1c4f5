package video

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	calls atomic.Int64
	fail  func(req Request) error
}

func (f *fakeGenerator) Generate(_ context.Context, req Request) (Clip, error) {
	f.calls.Add(1)
	if f.fail != nil {
		if err := f.fail(req); err != nil {
			return Clip{}, err
		}
	}
	return Clip{Scene: req.Scene, Path: req.Scene + ".mp4"}, nil
}

func TestQueueProcessesInOrder(t *testing.T) {
	gen := &fakeGenerator{}
	q := NewQueue(gen)
	q.Start(context.Background())
	defer q.Stop()

	var clips []chan Clip
	for i := range 3 {
		respCh, _, err := q.Add(Request{Scene: fmt.Sprintf("page_%03d", i)})
		require.NoError(t, err)
		clips = append(clips, respCh)
	}

	for i, respCh := range clips {
		select {
		case clip := <-respCh:
			assert.Equal(t, fmt.Sprintf("page_%03d.mp4", i), clip.Path)
		case <-time.After(time.Second):
			t.Fatalf("clip %d not delivered", i)
		}
	}
	assert.EqualValues(t, 3, gen.calls.Load())
}

func TestQueueDeliversError(t *testing.T) {
	gen := &fakeGenerator{fail: func(Request) error { return errors.New("backend down") }}
	q := NewQueue(gen)
	q.Start(context.Background())
	defer q.Stop()

	respCh, errCh, err := q.Add(Request{Scene: "page_001"})
	require.NoError(t, err)

	select {
	case err := <-errCh:
		assert.EqualError(t, err, "backend down")
	case <-time.After(time.Second):
		t.Fatal("error not delivered")
	}
	_, open := <-respCh
	assert.False(t, open)
}

func TestQueueFullRejects(t *testing.T) {
	q := NewQueue(&fakeGenerator{}) // never started, items pile up
	var err error
	for range 101 {
		_, _, err = q.Add(Request{Scene: "page_001"})
		if err != nil {
			break
		}
	}
	assert.EqualError(t, err, "queue is full")
}
