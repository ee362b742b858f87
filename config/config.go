package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "sysyc.toml"

type Config struct {
	Output Output
	Table  Table
	IR     IR
}

type Output struct {
	Color bool
	Trace bool
	Tree  bool
}

type Table struct {
	Compress bool

	// Report is the path a table report is written to. An empty path writes no report.
	Report string
}

type IR struct {
	ModuleName string
}

func Default() *Config {
	return &Config{
		Output: Output{
			Color: true,
		},
	}
}

// tomlFile is the file as encoded in TOML. A nil field means the key is absent.
type tomlFile struct {
	Output *tomlOutput `toml:"output"`
	Table  *tomlTable  `toml:"table"`
	IR     *tomlIR     `toml:"ir"`
}

type tomlOutput struct {
	Color *bool `toml:"color"`
	Trace *bool `toml:"trace"`
	Tree  *bool `toml:"tree"`
}

type tomlTable struct {
	Compress *bool   `toml:"compress"`
	Report   *string `toml:"report"`
}

type tomlIR struct {
	ModuleName *string `toml:"module_name"`
}

// Load reads the configuration file at `path`. An empty path or a missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return nil, err
	}
	err = c.merge(src)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", path, err)
	}

	return c, nil
}

// Parse reads a configuration from TOML text.
func Parse(src []byte) (*Config, error) {
	c := Default()
	err := c.merge(src)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) merge(src []byte) error {
	f := &tomlFile{}
	err := toml.Unmarshal(src, f)
	if err != nil {
		return err
	}

	if o := f.Output; o != nil {
		setBool(&c.Output.Color, o.Color)
		setBool(&c.Output.Trace, o.Trace)
		setBool(&c.Output.Tree, o.Tree)
	}
	if t := f.Table; t != nil {
		setBool(&c.Table.Compress, t.Compress)
		setString(&c.Table.Report, t.Report)
	}
	if ir := f.IR; ir != nil {
		setString(&c.IR.ModuleName, ir.ModuleName)
	}

	return nil
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
