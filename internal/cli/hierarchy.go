package cli

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/nickguletskii/grundzeug"
	"github.com/nickguletskii/grundzeug/config"
)

type layerOptions struct {
	files     []string
	dotenv    []string
	envPrefix string
	set       []string
}

// hierarchy is the container chain built from the layer flags.
type hierarchy struct {
	root *grundzeug.Container
	leaf *grundzeug.Container
}

func (c *CLI) buildHierarchy() (*hierarchy, error) {
	var opts []grundzeug.Option
	if hook := c.traceHook(); hook != nil {
		opts = append(opts, grundzeug.WithDebug(hook))
	}
	root := grundzeug.New(opts...)
	config.Install(root, nil)
	h := &hierarchy{root: root, leaf: root}

	for _, f := range c.layers.files {
		p, err := config.LoadFile(f)
		if err != nil {
			return nil, err
		}
		if err := h.push(p); err != nil {
			return nil, err
		}
		c.Logger.Debug("layer", "file", f, "container", h.leaf.ID())
	}
	if len(c.layers.dotenv) > 0 {
		p, err := config.LoadDotenv(c.layers.envPrefix, c.layers.dotenv...)
		if err != nil {
			return nil, err
		}
		if err := h.push(p); err != nil {
			return nil, err
		}
		c.Logger.Debug("layer", "dotenv", strings.Join(c.layers.dotenv, ","), "container", h.leaf.ID())
	}
	if c.layers.envPrefix != "" {
		if err := h.push(config.NewEnv(c.layers.envPrefix)); err != nil {
			return nil, err
		}
		c.Logger.Debug("layer", "env-prefix", c.layers.envPrefix, "container", h.leaf.ID())
	}
	if len(c.layers.set) > 0 {
		tree := config.NewTree(nil)
		for _, s := range c.layers.set {
			path, value, ok := strings.Cut(s, "=")
			if !ok {
				return nil, errors.Errorf("--set %q: expected path=value", s)
			}
			if err := tree.Set(config.ParsePath(path), value); err != nil {
				return nil, errors.Wrap(err, "--set")
			}
		}
		if err := h.push(tree); err != nil {
			return nil, err
		}
		c.Logger.Debug("layer", "set", len(c.layers.set), "container", h.leaf.ID())
	}
	return h, nil
}

// push adds a child layer holding p below the current leaf.
func (h *hierarchy) push(p config.Provider) error {
	child := h.leaf.Child()
	if err := config.RegisterProvider(child, p); err != nil {
		return err
	}
	h.leaf = child
	return nil
}
