package flatten

// Separator joins nested keys.
const Separator = "_"

// Flatten collapses nested objects into a single-level Object whose keys are
// the nested paths joined with sep. Values that are not objects are copied as-is.
// A nested empty object is kept as a value so the key survives.
func Flatten(src *Object, sep string) *Object {
	out := NewObject()
	Into(out, "", src, sep)
	return out
}

// Into flattens src into dst, prefixing every key with prefix (when non-empty).
func Into(dst *Object, prefix string, src *Object, sep string) {
	if src == nil {
		return
	}
	for _, key := range src.keys {
		walk(dst, join(prefix, key, sep), src.values[key], sep)
	}
}

func walk(dst *Object, key string, value any, sep string) {
	switch v := value.(type) {
	case *Object:
		if v.Len() == 0 {
			dst.Set(key, v)
			return
		}
		Into(dst, key, v, sep)
	default:
		dst.Set(key, value)
	}
}

func join(prefix, key, sep string) string {
	if prefix == "" {
		return key
	}
	return prefix + sep + key
}
