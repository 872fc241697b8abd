package main

import (
	"fmt"
	"strconv"

	"github.com/scott-cotton/cli"

	"github.com/bnkworks/go-bnk/fnv"
)

func hash(cfg *HashConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Hash.Parse(cc, args)
	if err != nil {
		cfg.Hash.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return usageErr("hash requires at least one name")
	}
	for _, name := range args {
		fmt.Fprintf(cc.Out, "%10d %s\n", fnv.Hash(name), name)
	}
	return nil
}

func lookup(cfg *LookupConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Lookup.Parse(cc, args)
	if err != nil {
		cfg.Lookup.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return usageErr("lookup requires at least one identity hash")
	}
	table := fnv.BuiltinTable()
	for _, arg := range args {
		v, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return usageErr("%q is not a 32-bit identity", arg)
		}
		name, ok := table.Lookup(uint32(v))
		if !ok {
			name = "?"
		}
		fmt.Fprintf(cc.Out, "%10d %s\n", v, name)
	}
	return nil
}
