package repo

import (
	"hash/fnv"
	"sort"
	"sync"
)

// stripedLock serialises work per key inside one process. Keys hash onto a
// fixed set of mutexes which are always taken in ascending order.
type stripedLock struct {
	stripes [64]sync.Mutex
}

func (s *stripedLock) Lock(keys ...string) (unlock func()) {
	idx := make([]int, 0, len(keys))
	seen := make(map[int]bool, len(keys))
	for _, k := range keys {
		h := fnv.New32a()
		_, _ = h.Write([]byte(k))
		i := int(h.Sum32() % uint32(len(s.stripes)))
		if !seen[i] {
			seen[i] = true
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	for _, i := range idx {
		s.stripes[i].Lock()
	}
	return func() {
		for j := len(idx) - 1; j >= 0; j-- {
			s.stripes[idx[j]].Unlock()
		}
	}
}
