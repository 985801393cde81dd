package toolchain

import (
	"sort"

	"github.com/MoreDelay/cbz-in/internal/domain"
)

// Tool names an external converter binary we invoke as a subprocess.
type Tool string

const (
	Magick  Tool = "magick"
	Cavif   Tool = "cavif"
	Avifdec Tool = "avifdec"
	Cjxl    Tool = "cjxl"
	Djxl    Tool = "djxl"
	Jxlinfo Tool = "jxlinfo"
	Cwebp   Tool = "cwebp"
	Dwebp   Tool = "dwebp"
)

// decodeTool returns the tool that decodes the format back to jpeg or png.
func decodeTool(from domain.ImageFormat) Tool {
	switch from {
	case domain.Avif:
		return Avifdec
	case domain.Jxl:
		return Djxl
	case domain.Webp:
		return Dwebp
	default:
		return Magick
	}
}

// encodeTool returns the tool that encodes jpeg or png into the format.
func encodeTool(to domain.ImageFormat) Tool {
	switch to {
	case domain.Avif:
		return Cavif
	case domain.Jxl:
		return Cjxl
	case domain.Webp:
		return Cwebp
	default:
		return Magick
	}
}

// stepTool picks the binary for a single conversion step.
func stepTool(step domain.Step) Tool {
	if step.From == domain.Jpeg || step.From == domain.Png {
		return encodeTool(step.To)
	}
	return decodeTool(step.From)
}

// RequiredTools lists the binaries a plan needs, including the probe tool
// for indeterminate JXL sources.
func RequiredTools(p domain.Plan) []Tool {
	if p.ProbeJxl {
		return []Tool{Jxlinfo, decodeTool(domain.Jxl), encodeTool(p.To)}
	}
	tools := make([]Tool, 0, 2)
	for _, step := range p.Steps("") {
		tools = append(tools, stepTool(step))
	}
	return tools
}

// dedupeTools returns a sorted, unique list of tool names.
func dedupeTools(tools []Tool) []string {
	seen := make(map[Tool]struct{}, len(tools))
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		if _, ok := seen[tool]; ok {
			continue
		}
		seen[tool] = struct{}{}
		names = append(names, string(tool))
	}
	sort.Strings(names)
	return names
}
