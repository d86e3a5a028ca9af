// Package scope implements the lexical scope chain described by the
// language: a stack of frames, lookup walking from the innermost frame
// outward, assignment always writing to the innermost frame.
//
// Function calls do not capture their defining scope. Instead a call
// gets a fresh Scope built by Push, which copies the caller's frame
// chain (not the frames themselves, just the slice of pointers to
// them) and adds one new, empty innermost frame. This is what the
// language calls a "copy-on-push" view of the environment: the callee
// sees every binding visible at call time, but writes of its own go
// into its private frame and never leak back to the caller.
package scope

// frame is a single binding level: a flat name-to-value map. The value
// type is left as interface{} here so this package has no dependency
// on the value package; interp binds it to value.Value.
type frame map[string]interface{}

// Scope is an immutable-spine stack of frames, innermost last.
type Scope struct {
	frames []frame
}

// NewRoot returns a fresh scope containing a single empty frame, the
// program's global scope.
func NewRoot() *Scope {
	return &Scope{frames: []frame{make(frame)}}
}

// Push returns a new Scope for a function call: the same sequence of
// frames as s, plus one new empty frame on top. s itself is
// unmodified, and further writes to the returned scope never affect
// s's own innermost frame.
func (s *Scope) Push() *Scope {
	next := make([]frame, len(s.frames), len(s.frames)+1)
	copy(next, s.frames)
	next = append(next, make(frame))
	return &Scope{frames: next}
}

// Get looks up name from the innermost frame outward, returning the
// bound value and true, or nil and false if no frame binds it.
func (s *Scope) Get(name string) (interface{}, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i][name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set writes name into the innermost frame unconditionally. A write to
// a name that shadows an outer binding creates a new binding in the
// innermost frame rather than updating the outer one.
func (s *Scope) Set(name string, v interface{}) {
	s.frames[len(s.frames)-1][name] = v
}

// Depth reports the number of frames in the chain, mostly useful for
// tests asserting that Push leaves the caller's chain untouched.
func (s *Scope) Depth() int { return len(s.frames) }
