package main

import (
	"fmt"
	"log"
	"os"

	"github.com/theflywheel/lptable"
)

func main() {
	// Start tiny so the walkthrough shows growth
	t, err := lptable.New(4, 0.75, lptable.WithLogger(log.New(os.Stdout, "", 0)))
	if err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}

	fmt.Println("Table created successfully")

	// Insert some data
	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("key%d", i)
		if !t.Put(key, lptable.Int32(int32(i*100))) {
			log.Fatalf("Failed to insert key %s", key)
		}
	}

	fmt.Printf("Inserted 10 key-value pairs (size=%d, capacity=%d)\n", t.Size(), t.Capacity())

	// Retrieve and display some values
	for i := 0; i < 15; i += 2 {
		key := fmt.Sprintf("key%d", i)
		if v, ok := t.Get(key); ok {
			fmt.Printf("%s => %v (%s)\n", key, v, v.Kind())
		} else {
			fmt.Printf("%s not found\n", key)
		}
	}

	// Update a value with a different variant
	t.Put("key2", lptable.Strings{"nine", "nine", "nine"})
	if v, ok := t.Get("key2"); ok {
		fmt.Printf("Updated key2 => %v (%s)\n", v, v.Kind())
	}

	// Remove a value
	if t.Remove("key4") {
		fmt.Println("Removed key4")
	}
	if !t.Put("", lptable.Int32(1)) {
		fmt.Println("Empty keys are rejected")
	}

	fmt.Printf("Final stats: %+v\n", t.Stats())
	fmt.Println("Example completed successfully")
}
