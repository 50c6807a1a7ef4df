package framemeta

import (
	"sync"

	"github.com/swdee/go-framemeta/query"
)

// VideoFrameBatch is an insertion ordered collection of frames keyed by a
// caller chosen id, moved and queried as one unit. The batch itself is
// single owner state, the frames inside keep their own locks so batch
// queries fan out across frames concurrently.
type VideoFrameBatch struct {
	frames map[int64]*VideoFrame
	order  []int64
}

// NewVideoFrameBatch creates an empty batch
func NewVideoFrameBatch() *VideoFrameBatch {
	return &VideoFrameBatch{
		frames: make(map[int64]*VideoFrame),
	}
}

// Add inserts the frame under the given id, replacing any frame already
// stored there
func (b *VideoFrameBatch) Add(id int64, f *VideoFrame) {

	if _, ok := b.frames[id]; !ok {
		b.order = append(b.order, id)
	}

	b.frames[id] = f
}

// Get returns the frame stored under the id
func (b *VideoFrameBatch) Get(id int64) (*VideoFrame, bool) {

	f, ok := b.frames[id]
	return f, ok
}

// Del removes the frame stored under the id and reports whether one was
// present
func (b *VideoFrameBatch) Del(id int64) bool {

	if _, ok := b.frames[id]; !ok {
		return false
	}

	delete(b.frames, id)

	for i, bid := range b.order {
		if bid == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}

	return true
}

// Len returns the number of frames in the batch
func (b *VideoFrameBatch) Len() int {
	return len(b.order)
}

// IDs returns the batch ids in insertion order
func (b *VideoFrameBatch) IDs() []int64 {

	out := make([]int64, len(b.order))
	copy(out, b.order)
	return out
}

// Frames returns the frames in insertion order
func (b *VideoFrameBatch) Frames() []*VideoFrame {

	out := make([]*VideoFrame, len(b.order))

	for i, id := range b.order {
		out[i] = b.frames[id]
	}

	return out
}

// AccessObjects evaluates the query on every frame concurrently and
// returns the per frame views keyed by batch id
func (b *VideoFrameBatch) AccessObjects(q query.MatchQuery) map[int64]*ObjectsView {

	views := make([]*ObjectsView, len(b.order))

	var wg sync.WaitGroup

	for i, id := range b.order {
		wg.Add(1)

		go func(i int, f *VideoFrame) {
			defer wg.Done()
			views[i] = f.AccessObjects(q)
		}(i, b.frames[id])
	}

	wg.Wait()

	out := make(map[int64]*ObjectsView, len(b.order))

	for i, id := range b.order {
		out[id] = views[i]
	}

	return out
}

// PartitionObjects evaluates the query on every frame concurrently and
// returns the per frame matched and unmatched views keyed by batch id
func (b *VideoFrameBatch) PartitionObjects(q query.MatchQuery) (map[int64]*ObjectsView, map[int64]*ObjectsView) {

	matched := make([]*ObjectsView, len(b.order))
	rest := make([]*ObjectsView, len(b.order))

	var wg sync.WaitGroup

	for i, id := range b.order {
		wg.Add(1)

		go func(i int, f *VideoFrame) {
			defer wg.Done()
			matched[i], rest[i] = f.AccessObjects(query.Idle()).Partition(q)
		}(i, b.frames[id])
	}

	wg.Wait()

	outMatched := make(map[int64]*ObjectsView, len(b.order))
	outRest := make(map[int64]*ObjectsView, len(b.order))

	for i, id := range b.order {
		outMatched[id] = matched[i]
		outRest[id] = rest[i]
	}

	return outMatched, outRest
}
