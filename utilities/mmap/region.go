// Package mmap provides read-only file mappings that hand out bounds-checked,
// reference-counted views.
//
// A [Region] starts with one reference held by whoever mapped it. Every
// [View] taken from the region holds another. The memory is unmapped when the
// last reference is dropped, so a view can never outlive the mapping it points
// into, and the owner can drop its reference as soon as it has finished
// handing out views.
package mmap

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/dargueta/pzip"
)

// Region is a read-only mapping of an entire file.
type Region struct {
	name      string
	data      []byte
	refs      atomic.Int64
	unmap     func([]byte) error
	closeOnce sync.Once
	unmapErr  error
	unmapped  atomic.Bool
}

// Map maps the first `size` bytes of `file` read-only. The file may be closed
// as soon as this returns; the mapping stays valid until every reference to it
// has been dropped.
func Map(file *os.File, size int64) (*Region, error) {
	if size <= 0 {
		return nil, pzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("can't map %d bytes of %s", size, file.Name()),
		)
	}
	if int64(int(size)) != size {
		return nil, pzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf("%s is too large to map (%d bytes)", file.Name(), size),
		)
	}

	data, unmap, err := mapFile(file, int(size))
	if err != nil {
		return nil, fmt.Errorf("memory-mapping %s: %w", file.Name(), err)
	}
	return NewRegion(file.Name(), data, unmap), nil
}

// FromBytes wraps an existing byte slice in a region. Dropping the last
// reference does nothing to the slice.
func FromBytes(name string, data []byte) *Region {
	return NewRegion(name, data, func([]byte) error { return nil })
}

// NewRegion wraps `data` in a region that calls `unmap` once the last
// reference is dropped.
func NewRegion(name string, data []byte, unmap func([]byte) error) *Region {
	region := &Region{name: name, data: data, unmap: unmap}
	region.refs.Store(1)
	return region
}

// Name returns the name of the file the region maps.
func (region *Region) Name() string {
	return region.name
}

// Len returns the size of the mapping, in bytes.
func (region *Region) Len() int {
	return len(region.data)
}

// Unmapped reports whether the memory has been released.
func (region *Region) Unmapped() bool {
	return region.unmapped.Load()
}

// View returns a view of `length` bytes starting at `offset`. The view holds a
// reference to the region that must be dropped with [View.Release].
func (region *Region) View(offset, length int) (*View, error) {
	if !region.acquire() {
		return nil, pzip.ErrQueueInvariant.WithMessage(
			fmt.Sprintf("view requested from %s after it was unmapped", region.name),
		)
	}
	if offset < 0 || length < 0 || offset+length > len(region.data) {
		region.release()
		return nil, pzip.ErrInvalidArgument.WithMessage(
			fmt.Sprintf(
				"can't view %d bytes at offset %d of %s; range not in [0, %d)",
				length,
				offset,
				region.name,
				len(region.data),
			),
		)
	}

	return &View{
		region: region,
		offset: offset,
		data:   region.data[offset : offset+length : offset+length],
	}, nil
}

// Close drops the reference held by the owner of the region. Calling Close
// more than once has no further effect. The returned error is only meaningful
// if this call released the memory.
func (region *Region) Close() error {
	var err error
	region.closeOnce.Do(func() {
		err = region.release()
	})
	return err
}

func (region *Region) acquire() bool {
	for {
		current := region.refs.Load()
		if current <= 0 {
			return false
		}
		if region.refs.CompareAndSwap(current, current+1) {
			return true
		}
	}
}

func (region *Region) release() error {
	remaining := region.refs.Add(-1)
	if remaining > 0 {
		return nil
	}
	if remaining < 0 {
		panic(pzip.ErrQueueInvariant.WithMessage(
			fmt.Sprintf("reference count of %s dropped below zero", region.name),
		))
	}

	region.unmapErr = region.unmap(region.data)
	region.data = nil
	region.unmapped.Store(true)
	if region.unmapErr != nil {
		return fmt.Errorf("unmapping %s: %w", region.name, region.unmapErr)
	}
	return nil
}

// -----------------------------------------------------------------------------

// View is a bounds-checked window into a [Region].
type View struct {
	region   *Region
	offset   int
	data     []byte
	released atomic.Bool
}

// Offset returns the offset of the view from the start of the region.
func (view *View) Offset() int {
	return view.offset
}

// Len returns the size of the view, in bytes.
func (view *View) Len() int {
	return len(view.data)
}

// Region returns the region the view was taken from.
func (view *View) Region() *Region {
	return view.region
}

// Read calls fn with the bytes of the view. fn must not retain the slice.
//
// If the underlying file shrinks while it's mapped, touching the missing pages
// raises a fault. This is converted into an error instead of crashing the
// process.
func (view *View) Read(fn func(data []byte) error) (err error) {
	if view.released.Load() {
		return pzip.ErrQueueInvariant.WithMessage(
			fmt.Sprintf(
				"read from released view at offset %d of %s",
				view.offset,
				view.region.name,
			),
		)
	}

	old := debug.SetPanicOnFault(true)
	defer func() {
		debug.SetPanicOnFault(old)
		if r := recover(); r != nil {
			err = pzip.ErrFatalIO.WithMessage(
				fmt.Sprintf(
					"page fault reading %s at offset %d: %v",
					view.region.name,
					view.offset,
					r,
				),
			)
		}
	}()

	return fn(view.data)
}

// Release drops the view's reference on its region. It's safe to call more
// than once.
func (view *View) Release() error {
	if !view.released.CompareAndSwap(false, true) {
		return nil
	}
	view.data = nil
	return view.region.release()
}
