package interpreter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"sync"

	"github.com/quasarbright/simple-interpreter-js/pkg/ast"
	"github.com/quasarbright/simple-interpreter-js/pkg/driver"
)

const maxDiagnosticNotes = 8

type runtimeCallFrame struct {
	node *ast.FunctionCall
}

type runtimeDiagnosticContext struct {
	node      ast.Node
	callStack []runtimeCallFrame
}

// runtimeDiagnosticError carries the failing node and the active calls
// alongside the typed error it wraps.
type runtimeDiagnosticError struct {
	err     error
	context *runtimeDiagnosticContext
}

func (e runtimeDiagnosticError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e runtimeDiagnosticError) Unwrap() error {
	return e.err
}

type RuntimeDiagnosticNote struct {
	Message  string
	Location driver.DiagnosticLocation
}

type RuntimeDiagnostic struct {
	Severity driver.DiagnosticSeverity
	Message  string
	Location driver.DiagnosticLocation
	Notes    []RuntimeDiagnosticNote
}

// BuildRuntimeDiagnostic locates err at the innermost failing node and adds a
// note for each enclosing call site, innermost first.
func (i *Interpreter) BuildRuntimeDiagnostic(err error) RuntimeDiagnostic {
	message := runtimeMessageFromError(err)
	ctx := runtimeContextFromError(err)

	var location driver.DiagnosticLocation
	if ctx != nil && ctx.node != nil {
		location = runtimeLocationFromNode(i, ctx.node)
	}
	if location.IsZero() && ctx != nil {
		for idx := len(ctx.callStack) - 1; idx >= 0; idx-- {
			location = runtimeLocationFromNode(i, ctx.callStack[idx].node)
			if !location.IsZero() {
				break
			}
		}
	}

	var notes []RuntimeDiagnosticNote
	if ctx != nil {
		for idx := len(ctx.callStack) - 1; idx >= 0 && len(notes) < maxDiagnosticNotes; idx-- {
			noteLocation := runtimeLocationFromNode(i, ctx.callStack[idx].node)
			if noteLocation.IsZero() || runtimeLocationsEqual(noteLocation, location) {
				continue
			}
			notes = append(notes, RuntimeDiagnosticNote{
				Message:  "called from here",
				Location: noteLocation,
			})
		}
	}

	severity := driver.SeverityError
	if errors.Is(err, ErrResourceExhausted) {
		severity = driver.SeverityWarning
	}
	return RuntimeDiagnostic{
		Severity: severity,
		Message:  message,
		Location: location,
		Notes:    notes,
	}
}

// DescribeRuntimeDiagnostic renders diag as
// "runtime: path:line:col message" followed by one "note:" line per note.
func DescribeRuntimeDiagnostic(diag RuntimeDiagnostic) string {
	message := strings.TrimSpace(diag.Message)
	location := formatRuntimeLocation(diag.Location)
	prefix := "runtime: "
	if diag.Severity == driver.SeverityWarning {
		prefix = "warning: runtime: "
	}
	var b strings.Builder
	if location != "" {
		fmt.Fprintf(&b, "%s%s %s", prefix, location, message)
	} else {
		fmt.Fprintf(&b, "%s%s", prefix, message)
	}
	for _, note := range diag.Notes {
		if noteLoc := formatRuntimeLocation(note.Location); noteLoc != "" {
			fmt.Fprintf(&b, "\nnote: %s %s", noteLoc, note.Message)
		} else {
			fmt.Fprintf(&b, "\nnote: %s", note.Message)
		}
	}
	return b.String()
}

func (i *Interpreter) attachRuntimeContext(err error, node ast.Node, state *evalState) error {
	if err == nil || node == nil {
		return err
	}
	if runtimeContextFromError(err) != nil {
		return err
	}
	return runtimeDiagnosticError{
		err: err,
		context: &runtimeDiagnosticContext{
			node:      node,
			callStack: state.snapshotCallStack(),
		},
	}
}

func runtimeContextFromError(err error) *runtimeDiagnosticContext {
	var diagErr runtimeDiagnosticError
	if errors.As(err, &diagErr) {
		return diagErr.context
	}
	return nil
}

func runtimeMessageFromError(err error) string {
	if err == nil {
		return ""
	}
	var diagErr runtimeDiagnosticError
	if errors.As(err, &diagErr) && diagErr.err != nil {
		return diagErr.err.Error()
	}
	return err.Error()
}

func formatRuntimeLocation(loc driver.DiagnosticLocation) string {
	if loc.Path != "" {
		loc.Path = normalizeRuntimePath(loc.Path)
	}
	return driver.FormatDiagnosticLocation(loc)
}

func runtimeLocationFromNode(i *Interpreter, node ast.Node) driver.DiagnosticLocation {
	if node == nil {
		return driver.DiagnosticLocation{}
	}
	span := node.Span()
	path := ""
	if i != nil && i.nodeOrigins != nil {
		path = i.nodeOrigins[node]
	}
	return driver.DiagnosticLocation{
		Path:      path,
		Line:      span.Start.Line,
		Column:    span.Start.Column,
		EndLine:   span.End.Line,
		EndColumn: span.End.Column,
	}
}

func runtimeLocationsEqual(left, right driver.DiagnosticLocation) bool {
	if left.IsZero() || right.IsZero() {
		return false
	}
	return left.Path == right.Path && left.Line == right.Line && left.Column == right.Column
}

var (
	runtimeDiagRootOnce sync.Once
	runtimeDiagRootPath string
)

// normalizeRuntimePath makes paths relative to the module root so fixture
// expectations do not depend on the checkout location.
func normalizeRuntimePath(raw string) string {
	if raw == "" {
		return ""
	}
	path := raw
	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}
	if root := runtimeDiagnosticRoot(); root != "" {
		if rel, err := filepath.Rel(root, path); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(path)
}

func runtimeDiagnosticRoot() string {
	runtimeDiagRootOnce.Do(func() {
		start := ""
		if _, file, _, ok := goruntime.Caller(0); ok {
			start = filepath.Dir(file)
		} else if wd, err := os.Getwd(); err == nil {
			start = wd
		}
		dir := start
		for i := 0; i < 12 && dir != "" && dir != string(filepath.Separator); i++ {
			if info, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !info.IsDir() {
				runtimeDiagRootPath = dir
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	})
	return runtimeDiagRootPath
}
