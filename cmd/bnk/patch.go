package main

import (
	"fmt"
	"os"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"

	"github.com/bnkworks/go-bnk/bnk"
	"github.com/bnkworks/go-bnk/ir"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 3 {
		return usageErr("patch requires a soundbank directory, a node identity and a patch file")
	}
	b, err := bnk.Load(args[0])
	if err != nil {
		return err
	}
	n := b.Lookup(args[1])
	if n == nil {
		return fmt.Errorf("no node %s in bank %d", args[1], b.ContainerID)
	}
	patchData, err := os.ReadFile(args[2])
	if err != nil {
		return err
	}
	ops, err := jsonpatch.DecodePatch(patchData)
	if err != nil {
		return fmt.Errorf("bad patch %s: %w", args[2], err)
	}

	doc, err := n.Body.MarshalJSON()
	if err != nil {
		return err
	}
	patched, err := ops.Apply(doc)
	if err != nil {
		return fmt.Errorf("patching %s: %w", n, err)
	}
	body, err := ir.Parse(patched)
	if err != nil {
		return fmt.Errorf("patched body of %s: %w", n, err)
	}
	n.Body = body
	return b.Save(bnk.SaveOptions{Backup: !cfg.NoBackup})
}
