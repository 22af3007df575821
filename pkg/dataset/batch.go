package dataset

// Entry is one materialized variant staged on disk, paired with its
// destination path inside the archive (label/name).
type Entry struct {
	TempPath    string
	ArchivePath string
}

// Batch accumulates entries up to a fixed capacity. Batches are sealed in
// order: entry counts are gapless and only the final batch of a run may be
// short. A capacity of zero never fills, so the whole run accumulates into
// a single batch flushed at the end.
type Batch struct {
	index    int
	capacity int
	entries  []Entry
}

func newBatch(index, capacity int) *Batch {
	return &Batch{index: index, capacity: capacity}
}

// Add appends an entry and reports whether the batch reached capacity.
func (b *Batch) Add(e Entry) bool {
	b.entries = append(b.entries, e)
	return b.capacity > 0 && len(b.entries) >= b.capacity
}

// Index returns the zero-based batch sequence number.
func (b *Batch) Index() int { return b.index }

// Len returns the number of accumulated entries.
func (b *Batch) Len() int { return len(b.entries) }

// Entries returns the accumulated entries in insertion order.
func (b *Batch) Entries() []Entry { return b.entries }
