package eeprom

// A Segment is the part of a request that is carried by one physical bus
// transaction. A segment never crosses a page boundary.
type Segment struct {
	Page    int
	Offset  int
	Address uint32

	// Start is the position of the segment in the caller's buffer.
	Start  int
	Length int
}

// BytesToWrite returns how many of the size bytes fit in the current page
// when starting at offset.
func (g Geometry) BytesToWrite(size, offset int) int {
	if size+offset < g.PageSize {
		return size
	}

	return g.PageSize - offset
}

// PageSpan returns the number of page segments a request is walked over.
//
// The count is page + (size+offset)/PageSize - page + 1. When size+offset is
// an exact multiple of the page size, the last segment it counts is empty.
func (g Geometry) PageSpan(page, offset, size int) int {
	startPage := page
	endPage := page + (size+offset)/g.PageSize

	return endPage - startPage + 1
}

// Split breaks a request into page-bounded segments. The first segment
// starts at offset, all others at offset 0 of the following pages. Empty
// segments are not returned.
func (g Geometry) Split(page, offset, size int) []Segment {
	numPages := g.PageSpan(page, offset, size)
	segments := make([]Segment, 0, numPages)
	pos := 0

	for i := 0; i < numPages; i++ {
		n := g.BytesToWrite(size, offset)

		if n > 0 {
			segments = append(segments, Segment{
				Page:    page,
				Offset:  offset,
				Address: g.MemoryAddress(page, offset),
				Start:   pos,
				Length:  n,
			})
		}

		page++
		offset = 0
		size -= n
		pos += n
	}

	return segments
}
