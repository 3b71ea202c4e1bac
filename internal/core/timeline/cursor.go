package timeline

import (
	"sort"

	"github.com/penwyp/go-winscope/internal/core/model"
)

// Cursor walks a built timeline one position at a time
type Cursor struct {
	timestamps []model.Timestamp
	index      int
}

// NewCursor creates a cursor positioned at the first timestamp
func NewCursor(timestamps []model.Timestamp) *Cursor {
	return &Cursor{timestamps: timestamps}
}

// Len returns the number of positions
func (c *Cursor) Len() int {
	return len(c.timestamps)
}

// Index returns the current position, -1 for an empty timeline
func (c *Cursor) Index() int {
	if len(c.timestamps) == 0 {
		return -1
	}
	return c.index
}

// Current returns the timestamp under the cursor
func (c *Cursor) Current() (model.Timestamp, bool) {
	if len(c.timestamps) == 0 {
		return model.Timestamp{}, false
	}
	return c.timestamps[c.index], true
}

// First moves to the first timestamp
func (c *Cursor) First() (model.Timestamp, bool) {
	c.index = 0
	return c.Current()
}

// Last moves to the last timestamp
func (c *Cursor) Last() (model.Timestamp, bool) {
	if len(c.timestamps) > 0 {
		c.index = len(c.timestamps) - 1
	}
	return c.Current()
}

// Next advances one position. It returns false at the end without moving.
func (c *Cursor) Next() (model.Timestamp, bool) {
	if c.index+1 >= len(c.timestamps) {
		return model.Timestamp{}, false
	}
	c.index++
	return c.Current()
}

// Prev moves back one position. It returns false at the start without moving.
func (c *Cursor) Prev() (model.Timestamp, bool) {
	if c.index == 0 || len(c.timestamps) == 0 {
		return model.Timestamp{}, false
	}
	c.index--
	return c.Current()
}

// Seek moves to the greatest timestamp less than or equal to ts. Seeking
// before the first timestamp, or with a timestamp of another type, fails
// and leaves the cursor in place.
func (c *Cursor) Seek(ts model.Timestamp) (model.Timestamp, bool) {
	if len(c.timestamps) == 0 || ts.Type != c.timestamps[0].Type {
		return model.Timestamp{}, false
	}
	i := sort.Search(len(c.timestamps), func(i int) bool {
		return c.timestamps[i].ValueNs > ts.ValueNs
	})
	if i == 0 {
		return model.Timestamp{}, false
	}
	c.index = i - 1
	return c.Current()
}
