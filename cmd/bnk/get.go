package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/bnkworks/go-bnk/bnk"
	"github.com/bnkworks/go-bnk/fnv"
)

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 || len(args) > 3 {
		return usageErr("get requires a soundbank directory and a node identity")
	}
	b, err := bnk.Load(args[0])
	if err != nil {
		return err
	}
	n := b.Lookup(args[1])
	if n == nil {
		return fmt.Errorf("no node %s in bank %d", args[1], b.ContainerID)
	}
	out := n.Body
	if len(args) == 3 {
		out, err = n.Get(args[2])
		if err != nil {
			return err
		}
	}
	return cfg.encode(cc.Out, out)
}

func list(cfg *ListConfig, cc *cli.Context, args []string) error {
	args, err := cfg.List.Parse(cc, args)
	if err != nil {
		cfg.List.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return usageErr("list requires a soundbank directory")
	}
	b, err := bnk.Load(args[0])
	if err != nil {
		return err
	}
	table := fnv.BuiltinTable()
	for i, n := range b.Nodes {
		if cfg.Type != "" && n.Type != cfg.Type {
			continue
		}
		fmt.Fprintf(cc.Out, "%5d %11d %-24s %s\n",
			i, n.Hash(), n.LookupName(table, "-"), n.Type)
	}
	return nil
}

func query(cfg *QueryConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Query.Parse(cc, args)
	if err != nil {
		cfg.Query.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return usageErr("query requires a soundbank directory and an expression")
	}
	b, err := bnk.Load(args[0])
	if err != nil {
		return err
	}
	nodes, err := b.QueryExpr(args[1])
	if err != nil {
		return err
	}
	for _, n := range nodes {
		fmt.Fprintf(cc.Out, "%s\n", n)
		if cfg.Bodies {
			if err := cfg.encode(cc.Out, n.Body); err != nil {
				return err
			}
		}
	}
	return nil
}
