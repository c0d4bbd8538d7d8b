package memocache

import (
	"context"
	"reflect"
	"regexp"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultMemoTTL is used when MemoOptions.TTL is zero.
const DefaultMemoTTL = 60 * time.Second

// MemoOptions configure Memoize. The zero value caches every result for
// DefaultMemoTTL under the wrapped function's name.
//
// Results round-trip through the cache's Serializer: only exported struct
// fields survive a hit, so a struct with unexported fields comes back with
// those fields zeroed. Results typed as a non-empty interface (e.g.
// fmt.Stringer) cannot be decoded and are never cached.
type MemoOptions[A any] struct {
	// Key defaults to the function's name. Instantiations of a generic
	// function are told apart by their signature types only; set Key when
	// two instantiations share a signature.
	Key    string
	Prefix string        // optional
	TTL    time.Duration // default DefaultMemoTTL; negative stores without expiry

	// SkipEmpty leaves empty results (zero values, empty strings, slices and
	// maps, nil pointers) uncached so the next call recomputes them.
	SkipEmpty bool
	// IgnoreArgs keys every call on Key alone.
	IgnoreArgs bool
	// SingleFlight collapses concurrent misses on the same key within this
	// process into one call of the wrapped function.
	SingleFlight bool

	// Params derives key parameters from the arguments. When nil, exported
	// fields of a struct A are used in declaration order (a `memo:"-"` tag
	// excludes a field); any other A becomes the single parameter "arg".
	Params func(A) Params
	// KeyBuilder replaces key composition entirely.
	KeyBuilder KeyBuilder
}

// Memoize wraps fn so that results are served from c when present.
// Cache failures are returned to the caller; fn's own errors are returned
// as-is and never cached. With the cache disabled every call reaches fn.
func Memoize[A, R any](c Cache, fn func(context.Context, A) (R, error), opts MemoOptions[A]) func(context.Context, A) (R, error) {
	name := coalesce(opts.Key, funcName(fn))
	ttl := coalesce(opts.TTL, DefaultMemoTTL)

	hooks, log := Hooks(NopHooks{}), Logger(NopLogger{})
	if o, ok := c.(observer); ok {
		hooks, log = o.observers()
	}

	if rt := reflect.TypeOf((*R)(nil)).Elem(); rt.Kind() == reflect.Interface && rt.NumMethod() > 0 {
		log.Warn("memoize: interface result type is not cacheable", Fields{"key": name, "type": rt.String()})
		return fn
	}

	var group *singleflight.Group
	if opts.SingleFlight {
		group = &singleflight.Group{}
	}

	compute := func(ctx context.Context, args A, k Key) (R, error) {
		res, err := fn(ctx, args)
		if err != nil {
			return res, err
		}
		if opts.SkipEmpty && isEmpty(res) {
			key := c.BuildKey(k)
			hooks.SetSkipped(key, "empty")
			log.Debug("memoize: empty result not cached", Fields{"key": key})
			return res, nil
		}
		return res, c.Set(ctx, k, res, ttl)
	}

	return func(ctx context.Context, args A) (R, error) {
		k := Key{Name: name, Prefix: opts.Prefix, Builder: opts.KeyBuilder}
		if !opts.IgnoreArgs {
			k.Params = bindParams(args, opts.Params)
		}

		var cached R
		found, err := c.Get(ctx, k, &cached)
		if err != nil {
			var zero R
			return zero, err
		}
		if found {
			return cached, nil
		}

		if group == nil {
			return compute(ctx, args, k)
		}
		v, err, _ := group.Do(c.BuildKey(k), func() (any, error) {
			return compute(ctx, args, k)
		})
		r, _ := v.(R) // nil interface results come back as the zero R
		return r, err
	}
}

func bindParams[A any](args A, derive func(A) Params) Params {
	if derive != nil {
		return derive(args)
	}
	rv := reflect.ValueOf(args)
	if !rv.IsValid() {
		return Params{P("arg", nil)}
	}
	if rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().Kind() == reflect.Struct {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Params{P("arg", args)}
	}

	rt := rv.Type()
	ps := make(Params, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		pname := f.Name
		if tag, ok := f.Tag.Lookup("memo"); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				pname = tag
			}
		}
		ps = append(ps, P(pname, rv.Field(i).Interface()))
	}
	return ps
}

// funcName returns the unqualified name of fn, e.g. "Service.Lookup"
// for a method value or "fetchUser" for a package-level function. Generic
// functions get their signature types in place of "[...]".
func funcName(fn any) string {
	rf := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if rf == nil {
		return "memo"
	}
	name := trimFuncName(rf.Name())
	if strings.Contains(name, "[...]") {
		name = strings.Replace(name, "[...]", "["+signatureTypes(reflect.TypeOf(fn))+"]", 1)
	}
	return name
}

var versionElem = regexp.MustCompile(`^v[0-9]+$`)

// trimFuncName drops the package path and qualifier from a runtime function
// name. The runtime escapes dots in the last path element ("yaml%2ev3"), but
// an unescaped "yaml.v3" element is skipped as well.
func trimFuncName(full string) string {
	name := full
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	parts := strings.Split(name, ".")
	i := 1 // parts[0] is the package name
	for i < len(parts)-1 && versionElem.MatchString(parts[i]) {
		i++
	}
	if i < len(parts) {
		name = strings.Join(parts[i:], ".")
	}
	name = strings.TrimSuffix(name, "-fm")
	return strings.NewReplacer("(", "", ")", "", "*", "").Replace(name)
}

// signatureTypes lists fn's parameter and result types, leaving out
// context.Context and error.
func signatureTypes(ft reflect.Type) string {
	ctxType := reflect.TypeOf((*context.Context)(nil)).Elem()
	errType := reflect.TypeOf((*error)(nil)).Elem()
	var types []string
	for i := 0; i < ft.NumIn(); i++ {
		if t := ft.In(i); t != ctxType {
			types = append(types, t.String())
		}
	}
	for i := 0; i < ft.NumOut(); i++ {
		if t := ft.Out(i); t != errType {
			types = append(types, t.String())
		}
	}
	return strings.Join(types, ",")
}

func isEmpty(v any) bool {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.String, reflect.Array, reflect.Chan:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface, reflect.Func:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}
