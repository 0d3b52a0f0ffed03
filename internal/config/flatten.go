package config

import "strings"

// secretKeys are masked in listings. A mongo URI can carry credentials, so
// it is treated as a secret as a whole.
var secretKeys = map[string]bool{
	"chatwoot.api_token": true,
	"mongo.password":     true,
	"mongo.uri":          true,
}

// IsSecretKey reports whether a dot-separated config key holds a secret.
func IsSecretKey(key string) bool {
	return secretKeys[key]
}

// Flatten turns the nested config map into dot-separated keys, the form
// `config list` prints and `config get` looks up.
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any)
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			if child, ok := v.(map[string]any); ok {
				walk(prefix+k+".", child)
				continue
			}
			out[prefix+k] = v
		}
	}
	walk("", m)
	return out
}

// Unflatten rebuilds sections from dot-separated keys so listed values can
// be printed as a YAML document.
func Unflatten(flat map[string]any) map[string]any {
	out := make(map[string]any)
	for key, v := range flat {
		section := out
		rest := key
		for {
			head, tail, nested := strings.Cut(rest, ".")
			if !nested {
				section[head] = v
				break
			}
			next, ok := section[head].(map[string]any)
			if !ok {
				next = make(map[string]any)
				section[head] = next
			}
			section, rest = next, tail
		}
	}
	return out
}

// MaskSecrets returns a copy of flat where non-empty secret strings keep
// only their last four characters, e.g. "***1234".
func MaskSecrets(flat map[string]any) map[string]any {
	out := make(map[string]any, len(flat))
	for k, v := range flat {
		out[k] = v
		if s, ok := v.(string); ok && s != "" && secretKeys[k] {
			out[k] = "***" + s[max(0, len(s)-4):]
		}
	}
	return out
}
