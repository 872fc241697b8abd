// Package debug gates diagnostic output on BNK_DEBUG_* environment
// variables.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

type debug struct {
	Load     bool
	Index    bool
	Insert   bool
	Graph    bool
	Transfer bool
	Verify   bool
	Wem      bool
}

var d *debug

func init() {
	d = &debug{}
	d.Load = boolEnv("BNK_DEBUG_LOAD")
	d.Index = boolEnv("BNK_DEBUG_INDEX")
	d.Insert = boolEnv("BNK_DEBUG_INSERT")
	d.Graph = boolEnv("BNK_DEBUG_GRAPH")
	d.Transfer = boolEnv("BNK_DEBUG_TRANSFER")
	d.Verify = boolEnv("BNK_DEBUG_VERIFY")
	d.Wem = boolEnv("BNK_DEBUG_WEM")
}

func boolEnv(v string) bool {
	x := os.Getenv(v)
	if x == "" {
		return false
	}
	b, _ := strconv.ParseBool(x)
	return b
}

func Load() bool {
	return d.Load
}
func Index() bool {
	return d.Index
}
func Insert() bool {
	return d.Insert
}
func Graph() bool {
	return d.Graph
}
func Transfer() bool {
	return d.Transfer
}
func Verify() bool {
	return d.Verify
}
func Wem() bool {
	return d.Wem
}

func Logf(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, msg, args...)
}
