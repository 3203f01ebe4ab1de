package wsl

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kebairia/wslsnap/internal/logger"
)

// DefaultTool is the management binary resolved from PATH.
const DefaultTool = "wsl"

// Option overrides a Client default.
type Option func(*Client)

// Client drives the distro management tool.
type Client struct {
	tool   string
	runner Runner
	log    logger.Logger
}

// WithTool overrides the binary name.
func WithTool(tool string) Option {
	return func(c *Client) {
		if tool != "" {
			c.tool = tool
		}
	}
}

// WithRunner replaces the process runner.
func WithRunner(r Runner) Option {
	return func(c *Client) {
		if r != nil {
			c.runner = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient returns a Client for DefaultTool backed by ExecRunner unless
// overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		tool:   DefaultTool,
		runner: ExecRunner{},
		log:    logger.Global(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tool returns the binary name the client invokes.
func (c *Client) Tool() string { return c.tool }

// ListDistros runs `--list --verbose` and parses its output. Only a launch
// failure is an error: the tool exits non-zero when nothing is installed, and
// whatever rows it printed are still returned.
func (c *Client) ListDistros(ctx context.Context) ([]Distro, error) {
	res := c.runner.Run(ctx, c.tool, "--list", "--verbose")
	switch res.Outcome {
	case LaunchFailure:
		return nil, errors.Wrap(res.Err(), "list distros")
	case NonZeroExit:
		c.log.Debug("list exited non-zero", "exit_code", res.ExitCode, "output", res.output())
	}

	text, err := DecodeOutput(res.Stdout)
	if err != nil {
		return nil, errors.Wrap(err, "list distros")
	}

	distros := ParseDistros(text)
	c.log.Debug("distros listed", "count", len(distros))
	if distros == nil {
		distros = []Distro{}
	}
	return distros, nil
}

// Export writes the named distro to dest as an uncompressed tar archive.
func (c *Client) Export(ctx context.Context, name, dest string) error {
	c.log.Info("export started", "distro", name, "path", dest)

	start := time.Now()
	res := c.runner.Run(ctx, c.tool, "--export", name, dest)
	if err := res.Err(); err != nil {
		return errors.Wrapf(err, "export %q", name)
	}

	c.log.Info("export completed",
		"distro", name,
		"path", dest,
		"duration", time.Since(start).String(),
	)
	return nil
}

// Import registers a new distro called name, installed under installDir,
// from the tar archive at archive.
func (c *Client) Import(ctx context.Context, name, installDir, archive string) error {
	c.log.Info("import started", "distro", name, "install_dir", installDir, "source", archive)

	start := time.Now()
	res := c.runner.Run(ctx, c.tool, "--import", name, installDir, archive)
	if err := res.Err(); err != nil {
		return errors.Wrapf(err, "import %q", name)
	}

	c.log.Info("import completed",
		"distro", name,
		"install_dir", installDir,
		"duration", time.Since(start).String(),
	)
	return nil
}
