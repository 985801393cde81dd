package toolchain

import (
	"fmt"

	"github.com/MoreDelay/cbz-in/internal/domain"
)

// stepArgs builds the argument list for one conversion step. All tools are
// pinned to a single thread; parallelism comes from running several
// conversions at once, not from the tools themselves.
func (c *Converter) stepArgs(step domain.Step, in, out string) []string {
	s := c.settings

	switch stepTool(step) {
	case Cavif:
		return []string{
			fmt.Sprintf("--speed=%d", s.AvifSpeed),
			"--threads=1",
			fmt.Sprintf("--quality=%d", s.AvifQuality),
			in, "-o", out,
		}
	case Cjxl:
		return []string{
			fmt.Sprintf("--effort=%d", s.JxlEffort),
			"--num_threads=1",
			fmt.Sprintf("--distance=%d", s.JxlDistance),
			in, out,
		}
	case Cwebp:
		return []string{"-q", fmt.Sprintf("%d", s.WebpQuality), in, "-o", out}
	case Avifdec:
		if step.To == domain.Jpeg {
			return []string{"--jobs", "1", "--quality", fmt.Sprintf("%d", s.AvifDecodeQuality), in, out}
		}
		return []string{"--jobs", "1", in, out}
	case Djxl:
		return []string{in, out, "--num_threads=1"}
	case Dwebp:
		return []string{in, "-o", out}
	default: // magick: jpeg<->png transcoding
		if step.To == domain.Jpeg {
			return []string{in, "-quality", fmt.Sprintf("%d", s.JpegQuality), out}
		}
		return []string{in, out}
	}
}

// magickArgs builds the fallback invocation. magick is more forgiving with
// out-of-spec files than the dedicated tools.
func magickArgs(in, out string) []string {
	return []string{in, out}
}
