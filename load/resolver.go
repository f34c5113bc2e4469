package load

import (
	"errors"
	"io/fs"

	"github.com/pgavlin/wasmdec/wasm"
)

// ErrModuleNotFound is returned when no file matches a module name.
var ErrModuleNotFound = errors.New("module not found")

// FSResolver loads modules by name from a file system. Each module is
// decoded at most once.
type FSResolver struct {
	fs      fs.FS
	modules map[string]*wasm.Module
}

func NewFSResolver(fs fs.FS) *FSResolver {
	return &FSResolver{fs: fs, modules: map[string]*wasm.Module{}}
}

func (r *FSResolver) loadModule(name string) (*wasm.Module, error) {
	extensions := []string{".wasm", ""}
	for _, ext := range extensions {
		if f, err := r.fs.Open(name + ext); err == nil {
			defer f.Close()
			return LoadModule(f)
		}
	}
	return nil, ErrModuleNotFound
}

// ResolveModule returns the module with the given name, trying the name with
// a .wasm extension first.
func (r *FSResolver) ResolveModule(name string) (*wasm.Module, error) {
	if m, ok := r.modules[name]; ok {
		return m, nil
	}

	m, err := r.loadModule(name)
	if err != nil {
		return nil, err
	}
	r.modules[name] = m
	return m, nil
}
