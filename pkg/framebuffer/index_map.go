package framebuffer

// NoIndex marks a pixel no object has claimed
const NoIndex = 0xff

// IndexMap records, per pixel, which drawn object last wrote it
type IndexMap struct {
	w, h    int
	indices []byte
}

// NewIndexMap returns a cleared w*h index map
func NewIndexMap(w, h int) *IndexMap {
	m := &IndexMap{
		w:       w,
		h:       h,
		indices: make([]byte, w*h),
	}

	m.Clear()

	return m
}

func (m *IndexMap) Clear() {
	for i := range m.indices {
		m.indices[i] = NoIndex
	}
}

// Set claims (x, y) for object index. Only the low byte of index is kept.
func (m *IndexMap) Set(x, y, index int) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return
	}

	m.indices[y*m.w+x] = byte(index)
}

// Get returns the object owning (x, y), if any
func (m *IndexMap) Get(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= m.w || y >= m.h {
		return 0, false
	}

	v := m.indices[y*m.w+x]
	if v == NoIndex {
		return 0, false
	}

	return int(v), true
}
