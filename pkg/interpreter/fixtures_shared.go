package interpreter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quasarbright/simple-interpreter-js/pkg/ast"
	"github.com/quasarbright/simple-interpreter-js/pkg/driver"
	"github.com/quasarbright/simple-interpreter-js/pkg/runtime"
)

// FixtureManifestName is the file that marks a directory as an exec fixture.
const FixtureManifestName = "manifest.yaml"

const defaultFixtureEntry = "expr.json"

// FixtureManifest describes one exec fixture: the expression file to
// evaluate, the initial bindings, and the expected outcome.
type FixtureManifest struct {
	Description  string        `yaml:"description"`
	Entry        string        `yaml:"entry"`
	MaxCallDepth int           `yaml:"maxCallDepth"`
	Globals      yaml.Node     `yaml:"globals"`
	Expect       FixtureExpect `yaml:"expect"`
}

type FixtureExpect struct {
	Result     *ValueDescription `yaml:"result"`
	Error      string            `yaml:"error"`
	ErrorKind  string            `yaml:"errorKind"`
	Diagnostic string            `yaml:"diagnostic"`
}

// FixtureOutcome is what evaluating a fixture actually produced.
type FixtureOutcome struct {
	Result     *ValueDescription `json:"result,omitempty"`
	Error      string            `json:"error,omitempty"`
	ErrorKind  string            `json:"errorKind,omitempty"`
	Diagnostic string            `json:"diagnostic,omitempty"`
	// Uncovered lists free identifiers of the expression that the initial
	// environment does not bind. Short-circuiting may leave them unevaluated,
	// so they are reported but never compared.
	Uncovered []string `json:"uncovered,omitempty"`
}

// LoadFixtureManifest reads dir/manifest.yaml. Unknown keys are rejected.
func LoadFixtureManifest(dir string) (FixtureManifest, error) {
	manifestPath := filepath.Join(dir, FixtureManifestName)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return FixtureManifest{}, fmt.Errorf("fixture: read %s: %w", manifestPath, err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var manifest FixtureManifest
	if err := decoder.Decode(&manifest); err != nil && !errors.Is(err, io.EOF) {
		return FixtureManifest{}, fmt.Errorf("fixture: parse %s: %w", manifestPath, err)
	}
	if manifest.Entry == "" {
		manifest.Entry = defaultFixtureEntry
	}
	return manifest, nil
}

// LoadFixtureExpression decodes an expression file, choosing JSON or YAML by
// extension.
func LoadFixtureExpression(path string) (ast.Expression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	var expr ast.Expression
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		expr, err = DecodeExpressionJSON(data)
	case ".yaml", ".yml":
		expr, err = DecodeExpressionYAML(data)
	default:
		return nil, fmt.Errorf("fixture: unsupported expression file %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("fixture: %s: %w", path, err)
	}
	return expr, nil
}

// Environment layers the manifest globals over base, applying the same
// validation as config file globals.
func (m FixtureManifest) Environment(base *runtime.Environment) (*runtime.Environment, error) {
	globals, err := driver.DecodeGlobals(&m.Globals)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}
	return driver.ExtendEnvironment(base, globals), nil
}

func uncoveredNames(expr ast.Expression, env *runtime.Environment) []string {
	var out []string
	for _, name := range ast.FreeVariables(expr) {
		if !env.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// RunFixture evaluates the fixture in dir. The returned error reports problems
// loading the fixture; evaluation failures are part of the outcome.
func RunFixture(ctx context.Context, dir string, opts ...Option) (FixtureManifest, FixtureOutcome, error) {
	manifest, err := LoadFixtureManifest(dir)
	if err != nil {
		return manifest, FixtureOutcome{}, err
	}
	entryPath := filepath.Join(dir, manifest.Entry)
	expr, err := LoadFixtureExpression(entryPath)
	if err != nil {
		return manifest, FixtureOutcome{}, err
	}
	if manifest.MaxCallDepth > 0 {
		opts = append(opts, WithMaxCallDepth(manifest.MaxCallDepth))
	}
	interp := New(opts...)
	env, err := manifest.Environment(interp.Globals())
	if err != nil {
		return manifest, FixtureOutcome{}, err
	}
	interp.SetNodeOrigins(ast.AnnotateOrigins(expr, entryPath, nil))
	uncovered := uncoveredNames(expr, env)

	val, evalErr := interp.EvaluateContext(ctx, expr, env)
	if evalErr != nil {
		return manifest, FixtureOutcome{
			Error:      runtimeMessageFromError(evalErr),
			ErrorKind:  ErrorKind(evalErr),
			Diagnostic: DescribeRuntimeDiagnostic(interp.BuildRuntimeDiagnostic(evalErr)),
			Uncovered:  uncovered,
		}, nil
	}
	desc := DescribeValue(val)
	return manifest, FixtureOutcome{Result: &desc, Uncovered: uncovered}, nil
}

// CompareFixtureOutcome lists every way got differs from the manifest's
// expectations. Empty expectation fields are not checked.
func CompareFixtureOutcome(want FixtureExpect, got FixtureOutcome) []string {
	var issues []string
	if want.Result != nil {
		switch {
		case got.Result == nil:
			issues = append(issues, fmt.Sprintf("expected result %s %s, got error %q", want.Result.Kind, want.Result.Value, got.Error))
		case *want.Result != *got.Result:
			issues = append(issues, fmt.Sprintf("expected result %s %s, got %s %s", want.Result.Kind, want.Result.Value, got.Result.Kind, got.Result.Value))
		}
	}
	if want.Error != "" && want.Error != got.Error {
		issues = append(issues, fmt.Sprintf("expected error %q, got %q", want.Error, got.Error))
	}
	if want.ErrorKind != "" && want.ErrorKind != got.ErrorKind {
		issues = append(issues, fmt.Sprintf("expected error kind %s, got %q", want.ErrorKind, got.ErrorKind))
	}
	if want.Diagnostic != "" && strings.TrimSpace(want.Diagnostic) != got.Diagnostic {
		issues = append(issues, fmt.Sprintf("diagnostic mismatch:\nexpected: %s\ngot: %s", strings.TrimSpace(want.Diagnostic), got.Diagnostic))
	}
	if want.Result == nil && want.Error == "" && want.ErrorKind == "" && got.Error != "" {
		issues = append(issues, fmt.Sprintf("unexpected error %q", got.Error))
	}
	return issues
}

// CollectFixtureDirs returns every directory under root holding a manifest,
// sorted.
func CollectFixtureDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == FixtureManifestName {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fixture: walk %s: %w", root, err)
	}
	sort.Strings(dirs)
	return dirs, nil
}
