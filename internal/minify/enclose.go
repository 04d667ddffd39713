package minify

import (
	"bytes"
	"strings"
)

// autoEncloseGlobals are wrapped by the enclose heuristic when referenced
// more than once. Order is significant: it fixes the wrapper's parameter order.
var autoEncloseGlobals = []string{"window", "document", "location", "navigator"}

// EncloseMode selects how the minified script is wrapped.
type EncloseMode int

const (
	// EncloseAuto applies the heuristic and wraps only if it found something.
	EncloseAuto EncloseMode = iota
	// EncloseOff disables wrapping.
	EncloseOff
	// EncloseOn applies the heuristic and always wraps, even with no parameters.
	EncloseOn
	// EncloseExplicit wraps with the given parameter list.
	EncloseExplicit
)

// Pair binds a wrapper parameter name to the expression passed in for it.
type Pair struct {
	Name  string
	Value string
}

// Enclose describes the isolating wrapper applied in the first pass.
type Enclose struct {
	Mode  EncloseMode
	Pairs []Pair
}

// ParseEnclose interprets an enclose option value. An empty value is the
// default "auto".
func ParseEnclose(s string) Enclose {
	switch strings.TrimSpace(s) {
	case "", "auto":
		return Enclose{Mode: EncloseAuto}
	case "no", "off", "false", "disable":
		return Enclose{Mode: EncloseOff}
	case "yes", "on", "true", "enable":
		return Enclose{Mode: EncloseOn}
	}

	var e Enclose
	e.Mode = EncloseExplicit
	for _, item := range strings.Split(s, ",") {
		if item == "" {
			continue
		}
		name, value, _ := strings.Cut(item, "=")
		if value == "" {
			value = name
		}
		e.set(name, value)
	}
	return e
}

// set adds or updates a pair, keeping the position of the first occurrence.
func (e *Enclose) set(name, value string) {
	for i := range e.Pairs {
		if e.Pairs[i].Name == name {
			e.Pairs[i].Value = value
			return
		}
	}
	e.Pairs = append(e.Pairs, Pair{Name: name, Value: value})
}

// Resolve returns the pairs to wrap for src and whether --enclose is emitted.
func (e Enclose) Resolve(src []byte) ([]Pair, bool) {
	switch e.Mode {
	case EncloseOff:
		return nil, false
	case EncloseExplicit:
		return e.Pairs, true
	}

	var pairs []Pair
	for _, name := range autoEncloseGlobals {
		if bytes.Count(src, []byte(name)) > 1 {
			pairs = append(pairs, Pair{Name: name, Value: name})
		}
	}
	return pairs, len(pairs) > 0 || e.Mode == EncloseOn
}

// Arg formats pairs as terser's "names:values" enclose argument.
func Arg(pairs []Pair) string {
	names := make([]string, len(pairs))
	values := make([]string, len(pairs))
	for i, p := range pairs {
		names[i] = p.Name
		values[i] = p.Value
	}
	return strings.Join(names, ",") + ":" + strings.Join(values, ",")
}
