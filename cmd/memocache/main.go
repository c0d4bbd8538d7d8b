// Command memocache inspects and edits a memocache store.
//
//	memocache <get|set|del|del-prefix|keys|exists|expire> [flags] <name> [value]
//
// The store is selected with MEMOCACHE_* environment variables (see package
// config). Flags follow the command and precede the key name:
//
//	memocache get -prefix v1 -param en greet      # reads app:v1:greet:en
//	memocache set -ttl 1m greet '{"text":"hi"}'   # JSON objects are stored as maps
//	memocache del-prefix -prefix v1 greet         # removes app:v1:greet:*
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/memocache"
	"github.com/unkn0wn-root/memocache/config"
	zaplog "github.com/unkn0wn-root/memocache/log/zap"
)

const usage = "usage: memocache <get|set|del|del-prefix|keys|exists|expire> [-prefix p] [-param v]... [-ttl d] <name> [value]"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// paramList collects repeated -param flags in order.
type paramList []string

func (p *paramList) String() string     { return strings.Join(*p, ",") }
func (p *paramList) Set(v string) error { *p = append(*p, v); return nil }

func (p paramList) Params() memocache.Params {
	if len(p) == 0 {
		return nil
	}
	ps := make(memocache.Params, 0, len(p))
	for i, v := range p {
		ps = append(ps, memocache.P("p"+strconv.Itoa(i), v))
	}
	return ps
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}
	cmd, rest := args[0], args[1:]
	if !commands[cmd] {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	prefix := fs.String("prefix", "", "key prefix")
	ttl := fs.Duration("ttl", 0, "expiry for set and expire (0 = none)")
	var params paramList
	fs.Var(&params, "param", "key parameter value, repeatable, kept in order")
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	pos := fs.Args()
	if len(pos) == 0 {
		fmt.Fprintln(stderr, usage)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	logger, err := newLogger(cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	p, err := cfg.Provider(ctx)
	if err != nil {
		logger.Error("open provider", zap.String("backend", cfg.Backend), zap.Error(err))
		return 1
	}
	defer func() { _ = p.Close(context.Background()) }()

	opts, err := cfg.Options(p)
	if err != nil {
		logger.Error("build options", zap.Error(err))
		return 1
	}
	opts.Logger = zaplog.New(logger)
	cc, err := memocache.New(opts)
	if err != nil {
		logger.Error("new cache", zap.Error(err))
		return 1
	}

	k := memocache.Key{Name: pos[0], Prefix: *prefix, Params: params.Params()}
	if err := dispatch(ctx, cc, cmd, k, pos[1:], *ttl, stdout); err != nil {
		logger.Error(cmd+" failed", zap.String("key", cc.BuildKey(k)), zap.Error(err))
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, usage)
			return 2
		}
		return 1
	}
	return 0
}

var errUsage = errors.New("bad usage")

var commands = map[string]bool{
	"get": true, "set": true, "del": true, "del-prefix": true,
	"keys": true, "exists": true, "expire": true,
}

func dispatch(ctx context.Context, cc memocache.Cache, cmd string, k memocache.Key, extra []string, ttl time.Duration, out io.Writer) error {
	switch cmd {
	case "get":
		var v any
		found, err := cc.Get(ctx, k, &v)
		if err != nil {
			return err
		}
		if !found {
			fmt.Fprintln(out, "(nil)")
			return nil
		}
		return printValue(out, v)
	case "set":
		if len(extra) != 1 {
			return errUsage
		}
		return cc.Set(ctx, k, parseValue(extra[0]), ttl)
	case "del":
		n, err := cc.Delete(ctx, k)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, n)
	case "del-prefix":
		n, err := cc.DeleteStartingWith(ctx, k)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, n)
	case "keys":
		keys, err := cc.Keys(ctx, k)
		if err != nil {
			return err
		}
		for _, key := range keys {
			fmt.Fprintln(out, key)
		}
	case "exists":
		ok, err := cc.Exists(ctx, k)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ok)
	case "expire":
		ok, err := cc.Expire(ctx, k, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ok)
	default:
		return errUsage
	}
	return nil
}

// parseValue stores JSON objects as maps and everything else as a string.
func parseValue(s string) any {
	if strings.HasPrefix(strings.TrimSpace(s), "{") {
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err == nil {
			return m
		}
	}
	return s
}

func printValue(out io.Writer, v any) error {
	switch x := v.(type) {
	case string:
		_, err := fmt.Fprintln(out, x)
		return err
	case []byte:
		_, err := fmt.Fprintln(out, string(x))
		return err
	}
	b, err := json.Marshal(v)
	if err != nil {
		_, err = fmt.Fprintf(out, "%v\n", v)
		return err
	}
	_, err = fmt.Fprintln(out, string(b))
	return err
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	enc := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), lvl)), nil
}
