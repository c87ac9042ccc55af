package board

// orderedSet is a string set that remembers insertion order.
type orderedSet struct {
	items []string
	index map[string]struct{}
}

func newOrderedSet(items ...string) *orderedSet {
	s := &orderedSet{index: make(map[string]struct{}, len(items))}
	s.add(items...)
	return s
}

func (s *orderedSet) add(items ...string) {
	for _, item := range items {
		if _, ok := s.index[item]; ok {
			continue
		}
		s.index[item] = struct{}{}
		s.items = append(s.items, item)
	}
}

func (s *orderedSet) remove(item string) {
	if _, ok := s.index[item]; !ok {
		return
	}
	delete(s.index, item)
	for i, existing := range s.items {
		if existing == item {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
}

func (s *orderedSet) has(item string) bool {
	_, ok := s.index[item]
	return ok
}

func (s *orderedSet) len() int {
	return len(s.items)
}

// list returns a copy of the items, never nil.
func (s *orderedSet) list() []string {
	return append(make([]string, 0, len(s.items)), s.items...)
}

func (s *orderedSet) clear() {
	s.items = nil
	s.index = make(map[string]struct{})
}
