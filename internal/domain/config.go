package domain

// Config carries everything a conversion run needs to know.
type Config struct {
	Target   ImageFormat
	Force    bool
	Workers  int
	DryRun   bool
	Verbose  bool
	Encoders EncoderSettings
	Tools    ToolPaths
}

// EncoderSettings holds per-format tuning passed to the converter tools.
type EncoderSettings struct {
	AvifQuality int
	AvifSpeed   int

	JxlEffort   int
	JxlDistance int

	WebpQuality int

	// JpegQuality applies when transcoding png to jpeg via magick.
	JpegQuality int
	// AvifDecodeQuality applies when decoding avif back to jpeg.
	AvifDecodeQuality int
}

// DefaultEncoderSettings mirrors the tuning the tool has always used.
func DefaultEncoderSettings() EncoderSettings {
	return EncoderSettings{
		AvifQuality:       88,
		AvifSpeed:         3,
		JxlEffort:         9,
		JxlDistance:       0,
		WebpQuality:       90,
		JpegQuality:       92,
		AvifDecodeQuality: 80,
	}
}

// ToolPaths maps a tool name to an explicit binary path, overriding PATH
// lookup. Tools without an entry are resolved from the environment.
type ToolPaths map[string]string
