// Package hook patches registry arrays inside the hook functions of a
// module's procedural file, e.g. the theme registry returned by
// <module>_theme() or the bundle map of <module>_entity_bundle_info().
package hook

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/attus74/devutil"
	"github.com/attus74/devutil/compiler/filestore"
	"github.com/attus74/devutil/compiler/php"
)

// Request describes one patch of a hook file.
type Request struct {
	File   string   // path of the hook file
	Header []string // doc comment of a newly created file
	Hook   string   // function holding the registry
	Doc    []string // doc comment of a newly created function
	Var    string   // registry variable, without $
	Keys   []string // key path below the registry variable
	Value  php.Expr
	// Ensure lists functions that must exist next to the hook. Existing
	// functions with the same name are left untouched.
	Ensure []*php.Func
}

// Patcher applies Requests to files of a FileStore.
type Patcher struct {
	fs filestore.FileStore
}

// New returns a Patcher writing through fs.
func New(fs filestore.FileStore) *Patcher {
	return &Patcher{fs: fs}
}

// Patch applies req and writes the file when its content changed. A file that
// cannot be parsed is left untouched and reported as *devutil.PatchError.
func (p *Patcher) Patch(req Request) (bool, error) {
	text, exists, err := p.fs.ReadText(req.File)
	if err != nil {
		return false, err
	}
	f := php.NewFile(req.Header...)
	if exists {
		if f, err = php.ParseFile(text); err != nil {
			return false, devutil.NewPatchError(req.File, req.Hook, err)
		}
	}
	if err := Apply(f, req); err != nil {
		return false, devutil.NewPatchError(req.File, req.Hook, err)
	}
	out := f.Print()
	if exists && out == text {
		return false, nil
	}
	if err := p.fs.WriteText(req.File, out); err != nil {
		return false, err
	}
	return true, nil
}

// Apply performs req on a parsed file.
func Apply(f *php.File, req Request) error {
	if len(req.Keys) == 0 {
		return fmt.Errorf("no registry key for %s", req.Hook)
	}
	fn := f.Func(req.Hook)
	if fn == nil {
		fn = &php.Func{Name: req.Hook, Signature: "()"}
		if len(req.Doc) > 0 {
			fn.Doc = php.DocBlock(req.Doc...)
		}
		f.Append(fn)
	}
	if err := set(fn, req); err != nil {
		return err
	}
	for _, e := range req.Ensure {
		if f.Func(e.Name) == nil {
			f.Append(e)
		}
	}
	return nil
}

// set stores req.Value below req.Keys. The value goes into the last statement
// of the hook that writes a prefix of the key path, so that keyed assignments
// such as $bundles['document']['memo'] = [...] are updated in place.
func set(fn *php.Func, req Request) error {
	i, keys := lastWriter(fn.Body, req.Var, req.Keys)
	if (i < 0 || len(keys) == 0) && keyed(fn.Body, req.Var) {
		insertKeyed(fn, req)
		return nil
	}
	var registry *php.Array
	if i < 0 || len(keys) == 0 {
		var err error
		if registry, err = ensureRegistry(fn, req.Var); err != nil {
			return err
		}
	} else {
		a := fn.Body[i].(*php.Assign)
		rest := req.Keys[len(keys):]
		if len(rest) == 0 {
			a.Value = req.Value
			return nil
		}
		arr, ok := a.Value.(*php.Array)
		if !ok {
			return fmt.Errorf("$%s['%s'] in %s is not an array literal", req.Var, strings.Join(keys, "']['"), fn.Name)
		}
		registry = arr
		req.Keys = rest
	}
	for _, k := range req.Keys[:len(req.Keys)-1] {
		v, _ := registry.Get(k)
		next, ok := v.(*php.Array)
		if !ok {
			next = &php.Array{}
			registry.Set(k, next)
		}
		registry = next
	}
	registry.Set(req.Keys[len(req.Keys)-1], req.Value)
	return nil
}

// lastWriter returns the index of the last plain assignment to $name whose
// key path is a prefix of keys, together with that path.
func lastWriter(body []php.Stmt, name string, keys []string) (int, []string) {
	found, path := -1, []string(nil)
	for i, s := range body {
		a, ok := s.(*php.Assign)
		if !ok || (a.Op != "" && a.Op != "=") {
			continue
		}
		v, p, ok := php.IndexPath(a.Target)
		if !ok || v != name || len(p) > len(keys) || !slices.Equal(p, keys[:len(p)]) {
			continue
		}
		if len(p) == 0 {
			if _, isArray := a.Value.(*php.Array); !isArray {
				continue
			}
		}
		found, path = i, p
	}
	return found, path
}

// keyed reports whether $name is filled with keyed assignments after its
// last array literal assignment, if any.
func keyed(body []php.Stmt, name string) bool {
	found := false
	for _, s := range body {
		a, ok := s.(*php.Assign)
		if !ok || (a.Op != "" && a.Op != "=") {
			continue
		}
		v, p, ok := php.IndexPath(a.Target)
		if !ok || v != name {
			continue
		}
		if len(p) == 0 {
			found = false
			continue
		}
		found = true
	}
	if !found {
		return false
	}
	_, a := returnedArray(body)
	return a == nil
}

// insertKeyed adds $name[k1]...[kn] = value before the trailing return.
func insertKeyed(fn *php.Func, req Request) {
	var target php.Expr = php.Var(req.Var)
	for _, k := range req.Keys {
		target = &php.Index{X: target, Key: php.Str(k)}
	}
	stmt := &php.Assign{Target: target, Value: req.Value}
	i := lastIndex(fn.Body)
	if i >= 0 && returns(fn.Body[i]) {
		fn.Body = slices.Insert(fn.Body, i, php.Stmt(stmt))
		return
	}
	fn.Body = append(fn.Body, stmt, &php.Return{Value: php.Var(req.Var)})
}

// ensureRegistry returns the array assigned to $name in fn, creating the
// assignment and the trailing return statement when they are missing.
func ensureRegistry(fn *php.Func, name string) (*php.Array, error) {
	registry := assigned(fn.Body, name)
	if registry == nil {
		plain := regexp.MustCompile(`^\$` + regexp.QuoteMeta(name) + `\s*=[^=]`)
		for _, s := range fn.Body {
			if raw, ok := s.(*php.Raw); ok && plain.MatchString(raw.Code) {
				return nil, fmt.Errorf("$%s in %s is not an array literal", name, fn.Name)
			}
		}
		if i, a := returnedArray(fn.Body); a != nil {
			registry = a
			fn.Body[i] = &php.Assign{Target: php.Var(name), Value: a}
		} else {
			registry = &php.Array{}
			fn.Body = append([]php.Stmt{&php.Assign{Target: php.Var(name), Value: registry}}, fn.Body...)
		}
	}
	if !returns(lastStmt(fn.Body)) {
		fn.Body = append(fn.Body, &php.Return{Value: php.Var(name)})
	}
	return registry, nil
}

func assigned(body []php.Stmt, name string) *php.Array {
	var found *php.Array
	for _, s := range body {
		a, ok := s.(*php.Assign)
		if !ok || a.Target != php.Var(name) || (a.Op != "" && a.Op != "=") {
			continue
		}
		if arr, ok := a.Value.(*php.Array); ok {
			found = arr
		}
	}
	return found
}

func lastIndex(body []php.Stmt) int {
	for i := len(body) - 1; i >= 0; i-- {
		if _, blank := body[i].(*php.Blank); !blank {
			return i
		}
	}
	return -1
}

func lastStmt(body []php.Stmt) php.Stmt {
	if i := lastIndex(body); i >= 0 {
		return body[i]
	}
	return nil
}

// returnedArray finds a trailing `return [...];`.
func returnedArray(body []php.Stmt) (int, *php.Array) {
	i := lastIndex(body)
	if i < 0 {
		return -1, nil
	}
	if ret, ok := body[i].(*php.Return); ok {
		if a, ok := ret.Value.(*php.Array); ok {
			return i, a
		}
	}
	return -1, nil
}

func returns(s php.Stmt) bool {
	switch s := s.(type) {
	case *php.Return:
		return true
	case *php.Raw:
		return strings.HasPrefix(s.Code, "return ") || strings.HasPrefix(s.Code, "return;")
	}
	return false
}

// Read returns the registry array of a hook function, or false when the file
// or the function does not exist.
func Read(fs filestore.FileStore, path, hookName, varName string) (*php.Array, bool, error) {
	text, ok, err := fs.ReadText(path)
	if err != nil || !ok {
		return nil, false, err
	}
	f, err := php.ParseFile(text)
	if err != nil {
		return nil, false, devutil.NewPatchError(path, hookName, err)
	}
	fn := f.Func(hookName)
	if fn == nil {
		return nil, false, nil
	}
	return view(fn.Body, varName)
}

// view folds the assignments to $name in statement order into one array.
// The result is a copy; the parsed statements are left untouched.
func view(body []php.Stmt, name string) (*php.Array, bool, error) {
	var out *php.Array
	for _, s := range body {
		a, ok := s.(*php.Assign)
		if !ok || (a.Op != "" && a.Op != "=") {
			continue
		}
		v, keys, ok := php.IndexPath(a.Target)
		if !ok || v != name {
			continue
		}
		if len(keys) == 0 {
			if arr, ok := a.Value.(*php.Array); ok {
				out = arr.Clone()
			}
			continue
		}
		if out == nil {
			out = &php.Array{}
		}
		node := out
		for _, k := range keys[:len(keys)-1] {
			v, _ := node.Get(k)
			next, ok := v.(*php.Array)
			if !ok {
				next = &php.Array{}
				node.Set(k, next)
			}
			node = next
		}
		value := a.Value
		if arr, ok := value.(*php.Array); ok {
			value = arr.Clone()
		}
		node.Set(keys[len(keys)-1], value)
	}
	if out != nil {
		return out, true, nil
	}
	if _, a := returnedArray(body); a != nil {
		return a.Clone(), true, nil
	}
	return nil, false, nil
}
