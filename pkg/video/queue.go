package video

import (
	"context"
	"errors"
	"sync"

	"github.com/charmbracelet/log"

	"storyreel/pkg/utils"
)

// Queue serializes clip generation against a backend that only tolerates
// one in-flight job. Results come back on per-request channels.
type Queue struct {
	generator Generator
	stop      chan struct{}
	items     chan *item
	once      sync.Once
}

type item struct {
	request  Request
	response chan Clip
	err      chan error
}

func NewQueue(generator Generator) *Queue {
	return &Queue{
		generator: generator,
		items:     make(chan *item, 100),
		stop:      make(chan struct{}),
	}
}

func (q *Queue) Start(ctx context.Context) {
	go q.processLoop(ctx)
}

func (q *Queue) Stop() {
	q.once.Do(func() { close(q.stop) })
}

// Add enqueues one clip request. Exactly one of the returned channels
// receives before both are closed.
func (q *Queue) Add(req Request) (chan Clip, chan error, error) {
	respCh := make(chan Clip, 1)
	errCh := make(chan error, 1)

	select {
	case q.items <- &item{request: req, response: respCh, err: errCh}:
		return respCh, errCh, nil
	default:
		return nil, nil, errors.New("queue is full")
	}
}

func (q *Queue) processLoop(ctx context.Context) {
	log.Info("video queue started")
	for {
		select {
		case <-ctx.Done():
			log.Info("video queue stopped", "reason", ctx.Err())
			return
		case <-q.stop:
			log.Info("video queue stopped")
			return
		case it := <-q.items:
			q.processItem(ctx, it)
		}
	}
}

func (q *Queue) processItem(ctx context.Context, it *item) {
	log.Info("generating clip", "scene", it.request.Scene, "prompt", utils.LimitStr(it.request.Prompt, 50))

	clip, err := q.generator.Generate(ctx, it.request)
	if err != nil {
		log.Error("clip generation failed", "scene", it.request.Scene, "err", err)
		it.err <- err
		close(it.response)
		return
	}

	it.response <- clip
	close(it.err)
}
