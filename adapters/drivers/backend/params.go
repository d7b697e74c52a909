package backenddrv

import "github.com/yaegashi/octops/domain/model"

// Strings returns a string slice parameter.
func Strings(p model.ParameterSet, key string) []string {
	switch v := p[key].(type) {
	case []string:
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// StringMap returns a map parameter.
func StringMap(p model.ParameterSet, key string) map[string]string {
	switch v := p[key].(type) {
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, e := range v {
			if s, ok := e.(string); ok {
				out[k] = s
			}
		}
		return out
	default:
		return nil
	}
}

// Bool returns a boolean parameter.
func Bool(p model.ParameterSet, key string) bool {
	b, _ := p[key].(bool)
	return b
}

// RunOptions converts dispatch options for the automation runner.
func RunOptions(o model.DispatchOptions) model.RunOptions {
	return model.RunOptions{Verbosity: o.Verbosity, DryRun: o.DryRun, Debug: o.Debug}
}
