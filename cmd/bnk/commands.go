package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "bnk").
		WithSynopsis("bnk [opts] command [opts]").
		WithDescription("bnk is a tool for working with soundbank object documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return bnkMain(cfg, cc, args)
		}).
		WithSubs(
			VerifyCommand(cfg),
			GetCommand(cfg),
			ListCommand(cfg),
			QueryCommand(cfg),
			HashCommand(cfg),
			LookupCommand(cfg),
			TransferCommand(cfg),
			PatchCommand(cfg),
			ImportWemsCommand(cfg))
}

func bnkMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Main.Parse(cc, args); err != nil {
		cfg.Main.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	return usageErr("a command is required")
}

func VerifyCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &VerifyConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Verify, "verify").
		WithAliases("v").
		WithSynopsis("verify [-only ids] <bankdir>").
		WithDescription("scan a soundbank for integrity findings").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return verify(cfg, cc, args)
		})
}

func GetCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &GetConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Get, "get").
		WithAliases("g").
		WithSynopsis("get <bankdir> <id-or-name> [path]").
		WithDescription("print a node body, or one attribute under it").
		WithRun(func(cc *cli.Context, args []string) error {
			return get(cfg, cc, args)
		})
}

func ListCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ListConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.List, "list").
		WithAliases("l", "ls").
		WithSynopsis("list [-type kind] <bankdir>").
		WithDescription("list nodes in document order").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return list(cfg, cc, args)
		})
}

func QueryCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &QueryConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Query, "query").
		WithAliases("q").
		WithSynopsis("query [-bodies] <bankdir> <expr>").
		WithDescription("select nodes with an expression over id, name, type and body").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return query(cfg, cc, args)
		})
}

func HashCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &HashConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Hash, "hash").
		WithSynopsis("hash <name> [names]").
		WithDescription("print the 32-bit identity hash of each name").
		WithRun(func(cc *cli.Context, args []string) error {
			return hash(cfg, cc, args)
		})
}

func LookupCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &LookupConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Lookup, "lookup").
		WithSynopsis("lookup <id> [ids]").
		WithDescription("reverse identity hashes through the built-in name table").
		WithRun(func(cc *cli.Context, args []string) error {
			return lookup(cfg, cc, args)
		})
}

func TransferCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &TransferConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Transfer, "transfer").
		WithAliases("t").
		WithSynopsis("transfer -map units.yaml [opts] <srcdir> <dstdir>").
		WithDescription("copy playable structures between soundbanks").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return transferRun(cfg, cc, args)
		})
}

func PatchCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &PatchConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Patch, "patch").
		WithAliases("p").
		WithSynopsis("patch [opts] <bankdir> <id-or-name> <patchfile>").
		WithDescription("apply an RFC 6902 patch to one node body").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return patch(cfg, cc, args)
		})
}

func ImportWemsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ImportWemsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.ImportWems, "import-wems").
		WithSynopsis("import-wems [opts] <bankdir> <wem> [wems]").
		WithDescription("copy payload files into a soundbank and patch recorded sizes").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return importWems(cfg, cc, args)
		})
}
