package cli

import (
	"github.com/davecgh/go-spew/spew"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/nickguletskii/grundzeug/config"
)

// getCommand creates the "get" command.
func (c *CLI) getCommand() *cobra.Command {
	var (
		dump   bool
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "get PATH",
		Short: "Resolve a configuration path and print its value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := c.buildHierarchy()
			if err != nil {
				return err
			}
			path := config.ParsePath(args[0])
			v, err := h.leaf.Resolve(config.Raw(path...))
			if err != nil {
				return err
			}
			c.Logger.Debug("resolved", "path", path.String())
			switch {
			case dump:
				spew.Fdump(c.out, v)
				return nil
			case asJSON:
				data, err := jsoniter.ConfigCompatibleWithStandardLibrary.MarshalIndent(v, "", "  ")
				if err != nil {
					return errors.Wrap(err, "encode json")
				}
				_, err = c.out.Write(append(data, '\n'))
				return err
			default:
				data, err := yaml.Marshal(v)
				if err != nil {
					return errors.Wrap(err, "encode yaml")
				}
				_, err = c.out.Write(data)
				return err
			}
		},
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "print the Go value with its types")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON instead of YAML")
	return cmd
}
