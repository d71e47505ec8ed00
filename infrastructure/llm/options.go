package llm

// Option keys recognized across providers. Values outside a provider's
// supported range are clamped, not rejected: an over-eager temperature
// should degrade a judgment, not crash a benchmark run.
const (
	optTemperature = "temperature"
	optMaxTokens   = "max_tokens"
	optSystem      = "system"
	optModel       = "model"
)

// defaultMaxTokens bounds judge replies when the caller sets no limit.
// The judge contract is a single decimal number, so replies are tiny; the
// headroom exists for providers that bill reasoning tokens against it.
const defaultMaxTokens = 256

// requestOptions is the provider-neutral view of an options map.
type requestOptions struct {
	model       string
	maxTokens   int
	temperature *float64
	system      string
}

// parseOptions extracts the common options with defaults applied.
func parseOptions(opts map[string]any, defaultModel string) requestOptions {
	ro := requestOptions{
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}

	if opts == nil {
		return ro
	}

	if m, ok := opts[optModel].(string); ok && m != "" {
		ro.model = m
	}
	if s, ok := opts[optSystem].(string); ok {
		ro.system = s
	}
	if mt, ok := asInt(opts[optMaxTokens]); ok && mt > 0 {
		ro.maxTokens = mt
	}
	if t, ok := asFloat(opts[optTemperature]); ok && t >= 0 {
		ro.temperature = &t
	}

	return ro
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		// YAML and JSON decoding both surface numbers as float64.
		return int(n), true
	default:
		return 0, false
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
