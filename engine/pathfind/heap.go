package pathfind

// Entry is one item tracked by a MinHeap. Index is maintained by the
// heap through every sift so ChangePriority can locate it in O(1) and
// re-heapify in O(log n); Index is set to -1 when the entry is popped.
// ChangePriority also checks that the heap slot at Index holds this
// very entry, so an entry that was never pushed is ignored as well.
type Entry[T any] struct {
	Priority float64
	Item     T
	seq      int
	index    int
}

// MinHeap is a binary min-heap parameterized on item type T, ordered
// by Priority with insertion order as the tie-break among equal
// priorities (earlier pushes pop first).
type MinHeap[T any] struct {
	entries []*Entry[T]
	nextSeq int
}

// NewMinHeap creates an empty heap.
func NewMinHeap[T any]() *MinHeap[T] {
	return &MinHeap[T]{}
}

// Len returns the number of entries currently enqueued.
func (h *MinHeap[T]) Len() int { return len(h.entries) }

// Push enqueues item at the given priority and returns its Entry,
// which ChangePriority uses later to adjust it in place.
func (h *MinHeap[T]) Push(item T, priority float64) *Entry[T] {
	e := &Entry[T]{Priority: priority, Item: item, seq: h.nextSeq, index: len(h.entries)}
	h.nextSeq++
	h.entries = append(h.entries, e)
	h.siftUp(e.index)
	return e
}

// Pop removes and returns the lowest-priority entry. Pop on an empty
// heap returns nil.
func (h *MinHeap[T]) Pop() *Entry[T] {
	if len(h.entries) == 0 {
		return nil
	}
	top := h.entries[0]
	last := len(h.entries) - 1
	h.swap(0, last)
	h.entries = h.entries[:last]
	if len(h.entries) > 0 {
		h.siftDown(0)
	}
	top.index = -1
	return top
}

// ChangePriority updates an entry's priority and restores heap order
// in O(log n). A no-op if e was never pushed or has already been
// popped (e.index == -1).
func (h *MinHeap[T]) ChangePriority(e *Entry[T], newPriority float64) {
	if e.index < 0 || e.index >= len(h.entries) || h.entries[e.index] != e {
		return
	}
	old := e.Priority
	e.Priority = newPriority
	if newPriority < old {
		h.siftUp(e.index)
	} else if newPriority > old {
		h.siftDown(e.index)
	}
}

func (h *MinHeap[T]) less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	return a.seq < b.seq
}

func (h *MinHeap[T]) swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
	h.entries[i].index = i
	h.entries[j].index = j
}

func (h *MinHeap[T]) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *MinHeap[T]) siftDown(i int) {
	n := len(h.entries)
	for {
		left, right := 2*i+1, 2*i+2
		smallest := i
		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.swap(i, smallest)
		i = smallest
	}
}
