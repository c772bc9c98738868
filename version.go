package ruleengine

// Version identifies the engine API version. The bytecode format carries
// its own version byte (bytecodeVersion in serialize.go).
const Version = "v1"

// Must panics if FromSource failed to compile src. Intended for engines
// built once at startup from a trusted, already-validated source file —
// the same shape as pongo2.Must for templates.
func Must(e *Engine, err error) *Engine {
	if err != nil {
		panic(err)
	}
	return e
}
