package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"

	"github.com/bnkworks/go-bnk/ir"
)

type MainConfig struct {
	Y bool `cli:"name=y aliases=yaml desc='output node bodies as yaml'"`

	Color bool `cli:"name=color desc='force colored output'"`

	Main *cli.Command
}

// setupColor disables color unless forced or writing to a terminal.
func (cfg *MainConfig) setupColor(w io.Writer) {
	if cfg.Color {
		color.NoColor = false
		return
	}
	f, ok := w.(*os.File)
	if !ok || !isatty.IsTerminal(f.Fd()) {
		color.NoColor = true
	}
}

// encode writes a node tree as indented JSON, or YAML with -y.
func (cfg *MainConfig) encode(w io.Writer, n *ir.Node) error {
	if cfg.Y {
		data, err := yaml.Marshal(n.ToAny())
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	data, err := n.MarshalJSON()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type VerifyConfig struct {
	*MainConfig
	Only string `cli:"name=only desc='comma-separated identities that must verify clean'"`

	Verify *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type ListConfig struct {
	*MainConfig
	Type string `cli:"name=type desc='restrict the listing to one node kind'"`

	List *cli.Command
}

type QueryConfig struct {
	*MainConfig
	Bodies bool `cli:"name=bodies desc='print matching node bodies, not just identities'"`

	Query *cli.Command
}

type HashConfig struct {
	*MainConfig

	Hash *cli.Command
}

type LookupConfig struct {
	*MainConfig

	Lookup *cli.Command
}

type TransferConfig struct {
	*MainConfig
	Map      string `cli:"name=map desc='yaml file mapping source unit names to destination names'"`
	Quiet    bool   `cli:"name=quiet aliases=q desc='suppress progress output'"`
	NoBackup bool   `cli:"name=no-backup desc='do not keep a .bak of the destination document'"`

	Transfer *cli.Command
}

type PatchConfig struct {
	*MainConfig
	NoBackup bool `cli:"name=no-backup desc='do not keep a .bak of the document'"`

	Patch *cli.Command
}

type ImportWemsConfig struct {
	*MainConfig
	NoBackup bool `cli:"name=no-backup desc='do not keep a .bak of the document'"`

	ImportWems *cli.Command
}

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", cli.ErrUsage, fmt.Sprintf(format, args...))
}
