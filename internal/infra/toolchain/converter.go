package toolchain

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/MoreDelay/cbz-in/internal/domain"
	"github.com/MoreDelay/cbz-in/internal/ports"
)

// Converter shells out to the external converter binaries. Every conversion
// runs in its own scoped temp directory which is removed on all exit paths.
type Converter struct {
	settings domain.EncoderSettings
	tools    domain.ToolPaths
	lookPath func(string) (string, error)
	log      *slog.Logger
}

type Option func(*Converter)

// WithToolPaths overrides PATH lookup for specific tools.
func WithToolPaths(paths domain.ToolPaths) Option {
	return func(c *Converter) {
		if paths != nil {
			c.tools = paths
		}
	}
}

// WithLookPath is useful for tests.
func WithLookPath(f func(string) (string, error)) Option {
	return func(c *Converter) { c.lookPath = f }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Converter) { c.log = log }
}

func New(settings domain.EncoderSettings, opts ...Option) *Converter {
	c := &Converter{
		settings: settings,
		tools:    domain.ToolPaths{},
		lookPath: exec.LookPath,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ ports.ImageConverter = (*Converter)(nil)

// Convert writes the image to a temp file, runs the plan's tool invocations
// and returns the final output bytes. When a dedicated tool fails, the step
// is retried once with magick before giving up.
func (c *Converter) Convert(ctx context.Context, data []byte, name string, plan domain.Plan) ([]byte, error) {
	wrap := func(kind domain.ErrorKind, err error) error {
		return &domain.OpError{Op: "toolchain.convert", Kind: kind, Path: name, Err: err}
	}

	tmpDir, err := os.MkdirTemp("", "cbz-in-*")
	if err != nil {
		return nil, wrap(domain.KindConversionFailed, err)
	}
	defer os.RemoveAll(tmpDir)

	in := filepath.Join(tmpDir, "input."+plan.From.Ext())
	if err := os.WriteFile(in, data, 0o600); err != nil {
		return nil, wrap(domain.KindConversionFailed, err)
	}

	var probed domain.ImageFormat
	if plan.ProbeJxl {
		probed, err = c.probeJxl(ctx, in)
		if err != nil {
			return nil, err
		}
		c.log.Debug("probed jxl source", "image", name, "intermediate", probed.Ext())
	}

	cur := in
	for i, step := range plan.Steps(probed) {
		out := filepath.Join(tmpDir, fmt.Sprintf("step%d.%s", i, step.To.Ext()))
		if err := c.runStep(ctx, step, cur, out); err != nil {
			if domain.IsKind(err, domain.KindToolMissing) || ctx.Err() != nil {
				return nil, err
			}
			c.log.Debug("dedicated tool failed, retrying with magick", "image", name, "err", err)
			if ferr := c.runTool(ctx, Magick, magickArgs(cur, out)); ferr != nil {
				return nil, wrap(domain.KindConversionFailed,
					fmt.Errorf("%w: %w (magick fallback: %w)", domain.ErrConversionFailed, err, ferr))
			}
		}
		cur = out
	}

	result, err := os.ReadFile(cur)
	if err != nil {
		return nil, wrap(domain.KindConversionFailed, fmt.Errorf("%w: %w", domain.ErrConversionFailed, err))
	}
	if len(result) == 0 {
		return nil, wrap(domain.KindConversionFailed,
			fmt.Errorf("%w: tool produced no output", domain.ErrConversionFailed))
	}
	return result, nil
}

// MissingTools checks the environment for every binary the plans require.
func (c *Converter) MissingTools(plans []domain.Plan) []string {
	var required []Tool
	for _, p := range plans {
		required = append(required, RequiredTools(p)...)
	}

	var missing []Tool
	seen := make(map[Tool]struct{})
	for _, tool := range required {
		if _, ok := seen[tool]; ok {
			continue
		}
		seen[tool] = struct{}{}
		if _, err := c.resolve(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	return dedupeTools(missing)
}

// runStep executes the dedicated tool for a single conversion step.
func (c *Converter) runStep(ctx context.Context, step domain.Step, in, out string) error {
	return c.runTool(ctx, stepTool(step), c.stepArgs(step, in, out))
}

// runTool invokes a binary and verifies it produced its output file. The
// last argument of every invocation is the output path.
func (c *Converter) runTool(ctx context.Context, tool Tool, args []string) error {
	bin, err := c.resolve(tool)
	if err != nil {
		return &domain.OpError{
			Op:   "toolchain.run",
			Kind: domain.KindToolMissing,
			Err:  fmt.Errorf("%w: %s", domain.ErrToolMissing, tool),
		}
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	c.log.Debug("running tool", "tool", string(tool), "args", args)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &domain.OpError{
			Op:   "toolchain.run",
			Kind: domain.KindConversionFailed,
			Err: fmt.Errorf("%w: %s: %w (%s)",
				domain.ErrConversionFailed, tool, err, strings.TrimSpace(stderr.String())),
		}
	}

	out := outputArg(tool, args)
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		return &domain.OpError{
			Op:   "toolchain.run",
			Kind: domain.KindConversionFailed,
			Err:  fmt.Errorf("%w: %s exited cleanly but produced no output", domain.ErrConversionFailed, tool),
		}
	}
	return nil
}

// probeJxl decides the intermediate format for a JXL source. A JXL file
// carrying a jbrd box is a losslessly recompressed JPEG and decodes best
// straight back to jpeg; everything else routes over png.
func (c *Converter) probeJxl(ctx context.Context, path string) (domain.ImageFormat, error) {
	bin, err := c.resolve(Jxlinfo)
	if err != nil {
		return "", &domain.OpError{
			Op:   "toolchain.probe_jxl",
			Kind: domain.KindToolMissing,
			Path: path,
			Err:  fmt.Errorf("%w: %s", domain.ErrToolMissing, Jxlinfo),
		}
	}

	cmd := exec.CommandContext(ctx, bin, "-v", path)
	output, err := cmd.Output()
	if err != nil {
		return "", &domain.OpError{
			Op:   "toolchain.probe_jxl",
			Kind: domain.KindConversionFailed,
			Path: path,
			Err:  fmt.Errorf("%w: jxlinfo: %w", domain.ErrConversionFailed, err),
		}
	}

	for _, line := range strings.Split(string(output), "\n") {
		if strings.HasPrefix(line, `box: type: "jbrd"`) {
			return domain.Jpeg, nil
		}
	}
	return domain.Png, nil
}

// resolve maps a tool to its binary path, honoring explicit overrides.
func (c *Converter) resolve(tool Tool) (string, error) {
	if path, ok := c.tools[string(tool)]; ok && path != "" {
		return path, nil
	}
	return c.lookPath(string(tool))
}

// outputArg extracts the output path from an argument list. cavif, cwebp and
// dwebp take it behind -o; everything else takes input then output
// positionally (djxl appends its thread flag after).
func outputArg(tool Tool, args []string) string {
	for i, a := range args {
		if a == "-o" && i+1 < len(args) {
			return args[i+1]
		}
	}
	positional := make([]string, 0, 2)
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			positional = append(positional, a)
		}
	}
	if len(positional) >= 2 {
		return positional[len(positional)-1]
	}
	return ""
}
