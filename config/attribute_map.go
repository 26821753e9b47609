package config

// An AttributeMap is a convenience wrapper for pulling out
// typed information from a map.
type AttributeMap map[string]interface{}

// Has returns whether or not the given name is in the map.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// String attempts to return a string present in the map with
// the given name; returns an empty string otherwise.
func (am AttributeMap) String(name string) string {
	if v, ok := am[name].(string); ok {
		return v
	}
	return ""
}

// Int attempts to return an integer present in the map with
// the given name; returns the given default otherwise.
func (am AttributeMap) Int(name string, def int) int {
	x, has := am[name]
	if !has {
		return def
	}
	switch v := x.(type) {
	case int:
		return v
	case float64:
		// yaml decodes whole numbers as int but this guards mixed sources
		return int(v)
	default:
		return def
	}
}

// Float64 attempts to return a float64 present in the map with
// the given name; returns the given default otherwise.
func (am AttributeMap) Float64(name string, def float64) float64 {
	x, has := am[name]
	if !has {
		return def
	}
	switch v := x.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

// Bool attempts to return a boolean present in the map with
// the given name; returns the given default otherwise.
func (am AttributeMap) Bool(name string, def bool) bool {
	x, has := am[name]
	if !has {
		return def
	}
	if v, ok := x.(bool); ok {
		return v
	}
	return def
}

// Float64Slice attempts to return a slice of float64 present in the map with
// the given name; returns nil otherwise.
func (am AttributeMap) Float64Slice(name string) []float64 {
	x, has := am[name]
	if !has {
		return nil
	}
	if already, ok := x.([]float64); ok {
		return already
	}
	raw, ok := x.([]interface{})
	if !ok {
		return nil
	}
	vals := make([]float64, 0, len(raw))
	for _, e := range raw {
		switch v := e.(type) {
		case float64:
			vals = append(vals, v)
		case int:
			vals = append(vals, float64(v))
		default:
			return nil
		}
	}
	return vals
}

// StringSlice attempts to return a slice of strings present in the map with
// the given name; returns nil otherwise.
func (am AttributeMap) StringSlice(name string) []string {
	x, has := am[name]
	if !has {
		return nil
	}
	if already, ok := x.([]string); ok {
		return already
	}
	raw, ok := x.([]interface{})
	if !ok {
		return nil
	}
	vals := make([]string, 0, len(raw))
	for _, e := range raw {
		v, ok := e.(string)
		if !ok {
			return nil
		}
		vals = append(vals, v)
	}
	return vals
}
