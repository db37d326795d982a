// Demo tool for driving the multi-fragment read coordinator against a
// synthetic in-memory dense array.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-kit/log"

	"github.com/arcbyte/arraydb/coord"
	"github.com/arcbyte/arraydb/dataset"
	"github.com/arcbyte/arraydb/fragment"
	"github.com/arcbyte/arraydb/memfrag"
	"github.com/arcbyte/arraydb/readstate"
	"github.com/arcbyte/arraydb/schema"
)

func main() {
	rows := flag.Int64("rows", 4, "domain rows")
	cols := flag.Int64("cols", 4, "domain cols")
	tileRows := flag.Int64("tile-rows", 2, "tile extent, rows")
	tileCols := flag.Int64("tile-cols", 2, "tile extent, cols")
	bufCells := flag.Int("buf-cells", 6, "buffer capacity per Read call, in cells")
	flag.Parse()

	logger := log.NewLogfmtLogger(os.Stdout)

	sch := schema.NewDenseSchema[int64](
		coord.Range[int64]{Lo: []int64{0, 0}, Hi: []int64{*rows - 1, *cols - 1}},
		[]int64{*tileRows, *tileCols},
		schema.RowMajor,
		schema.CoordInt64,
		[]schema.AttrDef{{Name: "v", Size: 8}},
	)
	dom := sch.Domain()

	colWidth := *cols
	base := memfrag.NewDenseFragment[int64](sch, dom, dom, map[int]memfrag.ValueFunc[int64]{
		0: func(c []int64) []byte { return coord.Encode([]int64{c[0]*colWidth + c[1]}) },
	})

	arr := dataset.NewInMemoryArray[int64](sch, []fragment.Fragment[int64]{base}, dom, []int{0}, true)

	rs, err := readstate.New[int64](arr, readstate.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "building read state: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("reading %dx%d domain, %dx%d tiles, %d cells per call\n", *rows, *cols, *tileRows, *tileCols, *bufCells)

	call := 0
	for {
		call++
		buf := make([]byte, *bufCells*8)
		written, done, err := rs.Read([][]byte{buf})
		if err != nil {
			fmt.Fprintf(os.Stderr, "read call %d: %v\n", call, err)
			os.Exit(1)
		}

		n := written[0] / 8
		vals := make([]int64, n)
		for i := 0; i < n; i++ {
			vals[i] = int64From(buf[i*8 : i*8+8])
		}
		fmt.Printf("call %d: %d cells %v\n", call, n, vals)

		if done {
			fmt.Println("done")
			return
		}
	}
}

func int64From(b []byte) int64 {
	var v int64
	for i := 7; i >= 0; i-- {
		v = v<<8 | int64(b[i])
	}
	return v
}
