package factor

// Index maps sparse keys (user ids, item ids, timestamps) to dense int32 ids
// used to address parameter slices.
type Index struct {
	Numbers map[string]int32 // sparse key -> dense id
	Names   []string         // dense id -> sparse key
}

// NotId represents a key that is not in the index.
const NotId = int32(-1)

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{
		Numbers: make(map[string]int32),
		Names:   make([]string, 0),
	}
}

// Len returns the number of indexed keys.
func (idx *Index) Len() int32 {
	if idx == nil {
		return 0
	}
	return int32(len(idx.Names))
}

// Add inserts name if absent and returns its dense id.
func (idx *Index) Add(name string) int32 {
	if id, exist := idx.Numbers[name]; exist {
		return id
	}
	id := int32(len(idx.Names))
	idx.Numbers[name] = id
	idx.Names = append(idx.Names, name)
	return id
}

// ToNumber converts a sparse key to its dense id, or NotId.
func (idx *Index) ToNumber(name string) int32 {
	if idx == nil {
		return NotId
	}
	if id, exist := idx.Numbers[name]; exist {
		return id
	}
	return NotId
}

func (idx *Index) clone() *Index {
	if idx == nil {
		return nil
	}
	out := &Index{
		Numbers: make(map[string]int32, len(idx.Numbers)),
		Names:   make([]string, len(idx.Names)),
	}
	copy(out.Names, idx.Names)
	for k, v := range idx.Numbers {
		out.Numbers[k] = v
	}
	return out
}

// check verifies that Numbers and Names describe the same bijection.
func (idx *Index) check() bool {
	if idx == nil {
		return true
	}
	if len(idx.Numbers) != len(idx.Names) {
		return false
	}
	for i, name := range idx.Names {
		if id, ok := idx.Numbers[name]; !ok || id != int32(i) {
			return false
		}
	}
	return true
}
