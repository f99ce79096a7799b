// Package config loads calc's CUE configuration.
//
// A config file is unified with the embedded #Config schema, so defaults come
// from the schema and unknown fields are rejected.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/calcbrain/internal/operation"
)

//go:embed schema.cue
var schemaSource string

// Config is the decoded configuration.
type Config struct {
	Division string            `json:"division"`
	Database string            `json:"database,omitempty"`
	Aliases  map[string]string `json:"aliases,omitempty"`
}

// Error codes.
const (
	ErrCodeNotFound   = "E005" // config path not found
	ErrCodeLoadFailed = "E004" // CUE load/parse failed
	ErrCodeInvalid    = "E201" // config does not satisfy the schema
)

// Error is a config load or validation failure.
type Error struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a missing config path.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeNotFound
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{Division: string(operation.DivisionStrict)}
}

// DivisionPolicy returns the parsed division policy.
func (c Config) DivisionPolicy() (operation.DivisionPolicy, error) {
	return operation.ParseDivisionPolicy(c.Division)
}

// Load reads a config from a .cue file or a directory of CUE files.
// An empty path returns Default().
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	ctx := cuecontext.New()
	value, err := build(ctx, path)
	if err != nil {
		return Config{}, err
	}
	return decode(ctx, value)
}

// Validate checks a config file against the schema without returning it.
func Validate(path string) error {
	_, err := Load(path)
	return err
}

func build(ctx *cue.Context, path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("config not found: %s", path)}
	}

	if !info.IsDir() {
		src, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("read config: %v", err)}
		}
		value := ctx.CompileBytes(src, cue.Filename(path))
		if err := value.Err(); err != nil {
			return cue.Value{}, toError(ErrCodeLoadFailed, err)
		}
		return value, nil
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: path})
	if len(instances) == 0 {
		return cue.Value{}, &Error{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	if inst := instances[0]; inst.Err != nil {
		return cue.Value{}, toError(ErrCodeLoadFailed, inst.Err)
	}
	value := ctx.BuildInstance(instances[0])
	if err := value.Err(); err != nil {
		return cue.Value{}, toError(ErrCodeLoadFailed, err)
	}
	return value, nil
}

func decode(ctx *cue.Context, user cue.Value) (Config, error) {
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile config schema: %w", err)
	}

	merged := schema.LookupPath(cue.ParsePath("#Config")).Unify(user)
	if err := merged.Validate(cue.Concrete(true)); err != nil {
		return Config{}, toError(ErrCodeInvalid, err)
	}

	var cfg Config
	if err := merged.Decode(&cfg); err != nil {
		return Config{}, toError(ErrCodeInvalid, err)
	}
	return cfg, nil
}

// toError keeps the first CUE error and its position.
func toError(code string, err error) *Error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Code: code, Message: err.Error()}
	}
	first := errs[0]
	e := &Error{Code: code, Message: first.Error()}
	if pos := cueerrors.Positions(first); len(pos) > 0 {
		e.Pos = pos[0]
	}
	return e
}
