package domain

// Step is a single tool invocation converting one format into another.
type Step struct {
	From ImageFormat
	To   ImageFormat
}

// Plan describes how one image reaches the target format.
//
// Most conversions are a single tool invocation. Conversions between the
// newer formats have no direct tool and route over an intermediate format.
// For JXL sources the intermediate depends on whether the file holds a
// recompressed JPEG, which is only knowable by probing the bytes, so the
// choice is deferred to the converter (ProbeJxl).
type Plan struct {
	From     ImageFormat
	To       ImageFormat
	Via      ImageFormat // intermediate format; empty for one-step plans
	ProbeJxl bool        // intermediate depends on probing the JXL source
}

// NewPlan returns the plan converting from into target. The second return
// value is false when the image should pass through instead: it already has
// the target format, or the conversion is gated behind force.
//
// Without force only conversions that start or end at jpeg/png run. Force
// additionally converts between avif, jxl and webp via the two-step plans.
func NewPlan(from, target ImageFormat, force bool) (Plan, bool) {
	if from == target {
		return Plan{}, false
	}

	var p Plan
	switch {
	case from == Avif && (target == Jxl || target == Webp):
		p = Plan{From: from, To: target, Via: Png}
	case from == Jxl && (target == Avif || target == Webp):
		p = Plan{From: from, To: target, ProbeJxl: true}
	case from == Webp && (target == Jpeg || target == Avif || target == Jxl):
		p = Plan{From: from, To: target, Via: Png}
	default:
		p = Plan{From: from, To: target}
	}

	if !force && !p.alwaysPerformed() {
		return Plan{}, false
	}
	return p, true
}

// TwoStep reports whether this plan routes over an intermediate format.
func (p Plan) TwoStep() bool {
	return p.Via != "" || p.ProbeJxl
}

// Steps resolves the plan into concrete conversion steps. For ProbeJxl plans
// the caller supplies the probed intermediate; it is ignored otherwise.
func (p Plan) Steps(probed ImageFormat) []Step {
	via := p.Via
	if p.ProbeJxl {
		via = probed
	}
	if via == "" {
		return []Step{{From: p.From, To: p.To}}
	}
	return []Step{{From: p.From, To: via}, {From: via, To: p.To}}
}

// alwaysPerformed reports whether the plan runs without force. Encoding from
// jpeg/png and decoding back to jpeg/png always runs; everything else is
// opt-in.
func (p Plan) alwaysPerformed() bool {
	if p.ProbeJxl {
		return false
	}
	switch {
	case p.From == Jpeg || p.From == Png:
		return true
	case p.To == Jpeg || p.To == Png:
		return true
	default:
		return false
	}
}
