package main

import (
	"github.com/scott-cotton/cli"

	"github.com/bnkworks/go-bnk/bnk"
	"github.com/bnkworks/go-bnk/wem"
)

func importWems(cfg *ImportWemsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.ImportWems.Parse(cc, args)
	if err != nil {
		cfg.ImportWems.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return usageErr("import-wems requires a soundbank directory and at least one payload file")
	}
	b, err := bnk.Load(args[0])
	if err != nil {
		return err
	}
	if err := wem.Import(b, args[1:]); err != nil {
		return err
	}
	return b.Save(bnk.SaveOptions{Backup: !cfg.NoBackup})
}
