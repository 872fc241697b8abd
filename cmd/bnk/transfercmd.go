package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"github.com/bnkworks/go-bnk/bnk"
	"github.com/bnkworks/go-bnk/transfer"
)

func transferRun(cfg *TransferConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Transfer.Parse(cc, args)
	if err != nil {
		cfg.Transfer.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return usageErr("transfer requires a source and a destination soundbank directory")
	}
	if cfg.Map == "" {
		return usageErr("transfer requires -map")
	}
	data, err := os.ReadFile(cfg.Map)
	if err != nil {
		return err
	}
	units := map[string]string{}
	if err := yaml.Unmarshal(data, &units); err != nil {
		return fmt.Errorf("bad unit map %s: %w", cfg.Map, err)
	}
	if len(units) == 0 {
		return usageErr("unit map %s is empty", cfg.Map)
	}

	src, err := bnk.Load(args[0])
	if err != nil {
		return err
	}
	dst, err := bnk.Load(args[1])
	if err != nil {
		return err
	}

	cfg.setupColor(cc.Out)
	e := &transfer.Engine{Src: src, Dst: dst, Out: cc.Out, Quiet: cfg.Quiet}
	if err := e.CopyStructure(units); err != nil {
		return err
	}
	return dst.Save(bnk.SaveOptions{Backup: !cfg.NoBackup})
}
