package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"

	"github.com/bnkworks/go-bnk/bnk"
	"github.com/bnkworks/go-bnk/fnv"
)

func verify(cfg *VerifyConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Verify.Parse(cc, args)
	if err != nil {
		cfg.Verify.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return usageErr("verify requires a soundbank directory")
	}
	b, err := bnk.Load(args[0])
	if err != nil {
		return err
	}
	opts := bnk.VerifyOptions{}
	if cfg.Only != "" {
		opts.Only, err = parseIdentities(cfg.Only)
		if err != nil {
			return usageErr("bad -only list: %v", err)
		}
	}

	cfg.setupColor(cc.Out)
	findings := b.Verify(opts)
	if len(findings) == 0 {
		fmt.Fprintf(cc.Out, "bank %d: no findings\n", b.ContainerID)
		return nil
	}
	fatal := false
	for _, f := range findings {
		c := color.New(color.FgYellow)
		if f.Kind.Fatal() {
			fatal = true
			c = color.New(color.FgRed)
		}
		c.Fprintf(cc.Out, " - %s: %s\n", f.Kind, f)
	}
	if fatal {
		return cli.ExitCodeErr(1)
	}
	return nil
}

// parseIdentities reads a comma-separated list of identities, each a
// decimal hash or a name to be hashed.
func parseIdentities(s string) ([]uint32, error) {
	var ids []uint32
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if v, err := strconv.ParseUint(part, 10, 32); err == nil {
			ids = append(ids, uint32(v))
			continue
		}
		ids = append(ids, fnv.Hash(part))
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no identities in %q", s)
	}
	return ids, nil
}
