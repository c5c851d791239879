package naming

import "strconv"

// Interner allocates unique identifiers within one namespace. It is the
// only place collisions are resolved.
type Interner struct {
	used     map[string]struct{}
	counters map[string]int
}

func NewInterner() *Interner {
	return &Interner{
		used:     make(map[string]struct{}),
		counters: make(map[string]int),
	}
}

func (in *Interner) Has(name string) bool {
	_, ok := in.used[name]
	return ok
}

// Claim reserves name and reports whether it was free.
func (in *Interner) Claim(name string) bool {
	if in.Has(name) {
		return false
	}
	in.used[name] = struct{}{}
	return true
}

// Unique claims base if it is free, otherwise base followed by the
// smallest non-negative integer that yields a free name.
func (in *Interner) Unique(base string) string {
	if in.Claim(base) {
		return base
	}
	for n := 0; ; n++ {
		candidate := base + strconv.Itoa(n)
		if in.Claim(candidate) {
			return candidate
		}
	}
}

// Sequence claims prefix followed by the next value of the prefix's
// counter, skipping values whose name is already taken.
func (in *Interner) Sequence(prefix string) string {
	for {
		n := in.counters[prefix]
		in.counters[prefix] = n + 1
		candidate := prefix + strconv.Itoa(n)
		if in.Claim(candidate) {
			return candidate
		}
	}
}

func (in *Interner) Len() int {
	return len(in.used)
}
