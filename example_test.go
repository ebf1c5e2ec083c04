package slidingcache_test

import (
	"context"
	"fmt"
	"time"

	slidingcache "github.com/karupanerura/sliding-cache"
)

// Conn simulates a pooled connection that must be closed when it falls out
// of the cache.
type Conn struct {
	Addr   string
	inUse  bool
	closed bool
}

func (c *Conn) Close() {
	c.closed = true
}

func ExampleCache_GetOrCompute() {
	cache := slidingcache.New(
		slidingcache.WithSweepInterval[string, *Conn](time.Minute),
		// keep expired connections that are still in use
		slidingcache.WithShouldDispose[string](func(conn *Conn) bool {
			return !conn.inUse
		}),
		slidingcache.WithDisposal[string](func(conn *Conn) {
			conn.Close()
		}),
	)

	ctx := context.Background()
	dial := func(ctx context.Context, addr string) (*Conn, error) {
		fmt.Println("dialing", addr)
		return &Conn{Addr: addr}, nil
	}

	// the first access computes, subsequent accesses renew the entry
	conn, err := cache.GetOrCompute(ctx, "db-1:5432", dial, 5*time.Minute)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("got connection to", conn.Addr)

	conn, err = cache.GetOrCompute(ctx, "db-1:5432", dial, 5*time.Minute)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("got connection to", conn.Addr)
	fmt.Println("cached connections:", cache.Len())

	// explicit removal closes the connection regardless of expiration
	cache.Remove("db-1:5432")
	fmt.Println("closed:", conn.closed)

	// Output:
	// dialing db-1:5432
	// got connection to db-1:5432
	// got connection to db-1:5432
	// cached connections: 1
	// closed: true
}

func ExampleCache_Entries() {
	cache := slidingcache.New[string, int]()

	ctx := context.Background()
	for i, key := range []string{"a", "b"} {
		i := i
		_, _ = cache.GetOrCompute(ctx, key, func(context.Context, string) (int, error) {
			return i, nil
		}, time.Minute)
	}

	entries := cache.Entries()
	fmt.Println("a =", entries["a"])
	fmt.Println("b =", entries["b"])

	// Output:
	// a = 0
	// b = 1
}
