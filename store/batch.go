package store

import "github.com/helios-one/ledger/errors"

// op is one pending write.
type op struct {
	key    []byte
	value  []byte
	delete bool
}

func (o op) apply(out SetDeleter) error {
	if o.delete {
		return out.Delete(o.key)
	}
	return out.Set(o.key, o.value)
}

// NonAtomicBatch buffers writes and applies them one by one on Write. It
// provides no crash atomicity of its own; use it only over in-memory
// backends, where the cache wrap already guarantees all-or-nothing
// visibility.
type NonAtomicBatch struct {
	out SetDeleter
	ops []op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch creates a batch that will flush into the given output.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	set := op{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	}
	b.ops = append(b.ops, set)
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	del := op{
		key:    append([]byte(nil), key...),
		delete: true,
	}
	b.ops = append(b.ops, del)
	return nil
}

// Write flushes all buffered operations into the output and resets the
// batch.
func (b *NonAtomicBatch) Write() error {
	for _, o := range b.ops {
		if err := o.apply(b.out); err != nil {
			return errors.Wrap(err, "cannot apply batch")
		}
	}
	b.ops = nil
	return nil
}
