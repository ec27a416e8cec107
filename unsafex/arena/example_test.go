package arena

import "fmt"

func Example() {
	var a Allocator
	a.Init(NewRegion(16 * 1024))

	before := a.AvailableBytes()
	ptr, err := a.Alloc(128, 8)
	if err != nil {
		panic(err)
	}
	fmt.Printf("consumed %d bytes\n", before-a.AvailableBytes())

	if err := a.Dealloc(ptr, 128, 8); err != nil {
		panic(err)
	}
	fmt.Printf("consumed %d bytes\n", before-a.AvailableBytes())

	// Output:
	// consumed 256 bytes
	// consumed 0 bytes
}
