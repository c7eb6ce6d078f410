// Package pyenv is the boundary to the live Python environment. It locates
// the interpreter, shells out to pip for installs, and probes installed
// distribution metadata (name, version, entry points) through
// importlib.metadata. The probe side never mutates environment state.
//
// External commands run behind the Runner interface so tests can substitute
// a fake environment.
package pyenv
