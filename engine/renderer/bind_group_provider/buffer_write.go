package bind_group_provider

import "errors"

// BufferWrite describes a single GPU buffer write operation targeting a specific binding
// on a BindGroupProvider at a given byte offset.
type BufferWrite struct {
	Provider BindGroupProvider
	Binding  uint32
	Offset   uint64
	Data     []byte
}

// Apply performs every write in order and joins their errors.
//
// Parameters:
//   - writes: the writes to perform
//
// Returns:
//   - error: the joined errors of every failed write, or nil
func Apply(writes []BufferWrite) error {
	var errs []error
	for _, w := range writes {
		if w.Provider == nil {
			continue
		}
		if err := w.Provider.Write(w.Binding, w.Offset, w.Data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
