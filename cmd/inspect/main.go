// inspect prints the directory of a packed image: the program count and
// each program's address range, the same enumeration the kernel logs at
// boot.
package main

import (
	"fmt"
	"os"

	"github.com/c2h5oh/datasize"

	"github.com/minikern/imagepack/lib/image"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <image.bin>\n", os.Args[0])
		os.Exit(2)
	}

	f, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening image: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	packed, err := image.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding image: %v\n", err)
		os.Exit(1)
	}

	dir := packed.Directory
	fmt.Printf("programs: %d\n", dir.Count())

	i := 0
	for r := range dir.All() {
		fmt.Printf("  program_%d %s %s\n", i, r, datasize.ByteSize(r.Size()).HumanReadable())
		i++
	}

	span := dir.Span()
	fmt.Printf("total: %s over %s\n", datasize.ByteSize(span.Size()).HumanReadable(), span)
}
