package interpreter

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/quasarbright/simple-interpreter-js/pkg/ast"
	"github.com/quasarbright/simple-interpreter-js/pkg/driver"
	"github.com/quasarbright/simple-interpreter-js/pkg/runtime"
)

// Interpreter evaluates expressions. It holds configuration only, so a single
// Interpreter may be shared across goroutines.
type Interpreter struct {
	maxCallDepth int
	timeout      time.Duration
	logger       *slog.Logger
	globals      *runtime.Environment
	nodeOrigins  map[ast.Node]string
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithConfig applies the limits and globals of a loaded config file.
func WithConfig(cfg *driver.Config) Option {
	return func(i *Interpreter) {
		if cfg == nil {
			return
		}
		WithMaxCallDepth(cfg.MaxCallDepth)(i)
		i.timeout = cfg.Timeout
		if len(cfg.Globals) > 0 {
			i.globals = driver.ExtendEnvironment(i.globals, cfg.Globals)
		}
	}
}

// WithGlobals sets the environment used when Evaluate is given none. Fixture
// globals are layered on top of it.
func WithGlobals(env *runtime.Environment) Option {
	return func(i *Interpreter) {
		i.globals = env
	}
}

// WithLogger routes call tracing and limit warnings to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMaxCallDepth bounds the number of nested closure calls. Values above
// driver.MaxCallDepthCeiling are clamped to it.
func WithMaxCallDepth(depth int) Option {
	return func(i *Interpreter) {
		if depth > 0 {
			i.maxCallDepth = min(depth, driver.MaxCallDepthCeiling)
		}
	}
}

// WithTimeout bounds the wall-clock time of each evaluation. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(i *Interpreter) {
		if timeout >= 0 {
			i.timeout = timeout
		}
	}
}

// New returns an interpreter with default limits.
func New(opts ...Option) *Interpreter {
	i := &Interpreter{
		maxCallDepth: driver.DefaultMaxCallDepth,
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SetNodeOrigins records the source path of nodes for runtime diagnostics.
func (i *Interpreter) SetNodeOrigins(origins map[ast.Node]string) {
	if len(origins) == 0 {
		i.nodeOrigins = nil
		return
	}
	i.nodeOrigins = origins
}

// MaxCallDepth reports the configured call depth limit.
func (i *Interpreter) MaxCallDepth() int {
	return i.maxCallDepth
}

// Globals returns the base environment. It is never nil.
func (i *Interpreter) Globals() *runtime.Environment {
	if i.globals == nil {
		return runtime.NewEnvironment()
	}
	return i.globals
}

// Evaluate reduces expr to a value in env. A nil env means the interpreter's
// globals.
func (i *Interpreter) Evaluate(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	return i.EvaluateContext(context.Background(), expr, env)
}

// EvaluateContext is Evaluate with cancellation. The context is consulted on
// every function call; once it is done evaluation fails with a
// *ResourceExhaustedError.
func (i *Interpreter) EvaluateContext(ctx context.Context, expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	if expr == nil {
		return nil, fmt.Errorf("interpreter: nil expression")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	if env == nil {
		env = i.Globals()
	}
	return i.evaluateExpression(expr, env, newEvalState(ctx))
}

// Evaluate runs expr with a default interpreter.
func Evaluate(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	return New().Evaluate(expr, env)
}

type evalState struct {
	ctx       context.Context
	callStack []runtimeCallFrame
}

func newEvalState(ctx context.Context) *evalState {
	if ctx == nil {
		ctx = context.Background()
	}
	return &evalState{ctx: ctx}
}

func (s *evalState) depth() int {
	return len(s.callStack)
}

func (s *evalState) pushCallFrame(call *ast.FunctionCall) {
	s.callStack = append(s.callStack, runtimeCallFrame{node: call})
}

func (s *evalState) popCallFrame() {
	if len(s.callStack) == 0 {
		return
	}
	s.callStack = s.callStack[:len(s.callStack)-1]
}

func (s *evalState) snapshotCallStack() []runtimeCallFrame {
	if len(s.callStack) == 0 {
		return nil
	}
	out := make([]runtimeCallFrame, len(s.callStack))
	copy(out, s.callStack)
	return out
}
