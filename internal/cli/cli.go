// Package cli implements the grundzeug command-line interface.
//
// The tool builds a container hierarchy out of configuration layers and
// queries it.  Every --file becomes a child of the previous layer, so
// later files override earlier ones key by key.  Dotenv files, the
// environment and --set values are layered on top, in that order.
//
// # Commands
//
//   - get: resolve a configuration path and print it
//   - registrations: list what is registered along the chain
//   - serve: expose the inspect handler over HTTP
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	out    io.Writer
	layers layerOptions
}

// New creates a CLI that prints results to out and logs to logOut.
func New(out, logOut io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(logOut, level),
		out:    out,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "grundzeug",
		Short:        "Resolve layered configuration through a container hierarchy",
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringArrayVarP(&c.layers.files, "file", "f", nil, "configuration file (yaml, toml, json, env); repeat to add layers")
	pf.StringArrayVar(&c.layers.dotenv, "dotenv", nil, "dotenv file layered above the configuration files")
	pf.StringVar(&c.layers.envPrefix, "env-prefix", "", "read environment variables with this prefix as the top layer")
	pf.StringArrayVar(&c.layers.set, "set", nil, "override a single value: path=value")

	root.AddCommand(c.getCommand())
	root.AddCommand(c.registrationsCommand())
	root.AddCommand(c.serveCommand())

	return root
}
