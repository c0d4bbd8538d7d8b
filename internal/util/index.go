package util

import "sync"

// KeyIndex tracks live keys, with the admission cost each was stored at,
// for stores that cannot enumerate their contents.
// Entries may outlive the stored value (eviction, expiry); callers must
// treat a listed key as a hint and confirm it against the store.
type KeyIndex struct {
	keys sync.Map
}

func (i *KeyIndex) Add(key string, cost int64) { i.keys.Store(key, cost) }
func (i *KeyIndex) Remove(key string)          { i.keys.Delete(key) }

// Cost returns the cost recorded for key by the last Add.
func (i *KeyIndex) Cost(key string) (int64, bool) {
	v, ok := i.keys.Load(key)
	if !ok {
		return 0, false
	}
	return v.(int64), true
}

// Match returns the indexed keys matching pattern. Order is unspecified.
func (i *KeyIndex) Match(pattern string) []string {
	var out []string
	i.keys.Range(func(k, _ any) bool {
		if s := k.(string); MatchGlob(pattern, s) {
			out = append(out, s)
		}
		return true
	})
	return out
}

// Prune removes indexed keys for which alive reports false and returns how
// many were removed.
func (i *KeyIndex) Prune(alive func(key string) bool) int {
	n := 0
	i.keys.Range(func(k, _ any) bool {
		if !alive(k.(string)) {
			i.keys.Delete(k)
			n++
		}
		return true
	})
	return n
}

func (i *KeyIndex) Len() int {
	n := 0
	i.keys.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
