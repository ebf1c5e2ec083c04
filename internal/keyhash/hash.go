// Package keyhash derives bucket hash functions for cache key types.
package keyhash

import (
	"encoding/binary"
	"fmt"
	"hash"
	"hash/fnv"
	"math"
	"sync"

	"github.com/goccy/go-reflect"
)

var (
	hashFuncsMu sync.RWMutex

	// hashFuncs caches the derived hash function per key type name.
	hashFuncs = map[string]func(any) int{}
)

// ForType returns a hash function for the given key type.
// Derived functions are cached per type, so repeated calls are cheap.
// It panics for key types it cannot hash; callers with such key types
// must provide their own hash function instead.
func ForType[K comparable]() func(any) int {
	var zero K
	return forTypeAny(zero)
}

func forTypeAny(t any) func(any) int {
	name := reflect.TypeOf(t).String()

	hashFuncsMu.RLock()
	f, ok := hashFuncs[name]
	hashFuncsMu.RUnlock()
	if ok {
		return f
	}

	hashFuncsMu.Lock()
	defer hashFuncsMu.Unlock()
	if f, ok := hashFuncs[name]; ok {
		return f
	}

	f = newHashFunc(t)
	hashFuncs[name] = f
	return f
}

// newHashFunc builds an FNV-1a based hash function for the given key type.
func newHashFunc(t any) func(any) int {
	switch t.(type) {
	case int:
		return func(v any) int { return hashUint64(uint64(v.(int))) }
	case int8:
		return func(v any) int { return hashUint64(uint64(v.(int8))) }
	case int16:
		return func(v any) int { return hashUint64(uint64(v.(int16))) }
	case int32:
		return func(v any) int { return hashUint64(uint64(v.(int32))) }
	case int64:
		return func(v any) int { return hashUint64(uint64(v.(int64))) }
	case uint:
		return func(v any) int { return hashUint64(uint64(v.(uint))) }
	case uint8:
		return func(v any) int { return hashUint64(uint64(v.(uint8))) }
	case uint16:
		return func(v any) int { return hashUint64(uint64(v.(uint16))) }
	case uint32:
		return func(v any) int { return hashUint64(uint64(v.(uint32))) }
	case uint64:
		return func(v any) int { return hashUint64(v.(uint64)) }
	case float32:
		return func(v any) int { return hashUint64(uint64(math.Float32bits(v.(float32)))) }
	case float64:
		return func(v any) int { return hashUint64(math.Float64bits(v.(float64))) }
	case string:
		return func(v any) int { return hashString(v.(string)) }
	case uintptr:
		panic("uintptr cannot be a hash key")
	default:
		panic(fmt.Sprintf("cannot derive hash function for type: %T", t))
	}
}

// hashPool pools 64-bit FNV-1a hashers across calls.
var hashPool = sync.Pool{
	New: func() any {
		return fnv.New64a()
	},
}

func hashUint64(u uint64) int {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], u)
	return hashBytes(b[:])
}

func hashString(s string) int {
	h := hashPool.Get().(hash.Hash64)
	defer putHash(h)
	_, _ = h.Write([]byte(s))
	return int(h.Sum64())
}

func hashBytes(b []byte) int {
	h := hashPool.Get().(hash.Hash64)
	defer putHash(h)
	_, _ = h.Write(b)
	return int(h.Sum64())
}

func putHash(h hash.Hash64) {
	h.Reset()
	hashPool.Put(h)
}
