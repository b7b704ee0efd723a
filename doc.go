/*
Package lptable provides a concurrent in-memory hash table using open addressing
with linear probing.

Table is designed as a building block for caches, symbol tables and in-memory
indexes. Keys are non-empty strings; values are one of a fixed set of scalar and
sequence types.

Basic usage:

	import "github.com/theflywheel/lptable"

	// Create a table with 16 slots that grows past 75% occupancy
	t, err := lptable.New(16, 0.75)
	if err != nil {
		log.Fatal(err)
	}

	// Insert data
	t.Put("answer", lptable.Int32(42))
	t.Put("primes", lptable.Int32s{2, 3, 5, 7})

	// Retrieve data
	if v, ok := t.Get("answer"); ok {
		fmt.Println("Value:", v)
	}

	// Delete data
	t.Remove("answer")

Features:

  - Closed value set: Int32, Float, String, Int32s, Floats, Strings
  - Thread-safe with a single read/write mutex over the whole table
  - Automatic doubling when (size+1)/capacity exceeds the load factor
  - Uses xxhash for key hashing (replaceable with WithHashFunc)
  - Open addressing with linear probing for collision resolution
  - Tombstone deletion, reclaimed on resize

Implementation Details:

The table is a contiguous slice of slots. Each slot is empty, occupied, or a
tombstone left behind by Remove. A lookup starts at hash(key) mod capacity and
walks forward, wrapping, until it reaches an empty slot, a tombstone, or the
slot already holding the key.

Because a tombstone ends the search, an entry that was placed further along its
chain than a slot which is later removed becomes unreachable by Get and Remove,
and a subsequent Put for that key claims the tombstone and leaves the older
entry in place, so Size counts the key twice. Resize rehashes only live
entries, in slot order, which is the only point at which tombstones are
reclaimed. It keeps the copy of such a key at the lower slot index and drops
the other, so Size drops by one. If the stale copy had the lower index, Get
returns the old value again after the resize. A workload that removes as often
as it inserts may therefore hold many tombstones until the next growth.

Values are copied on Put and on Get, so callers never share memory with the
table.
*/
package lptable
