// Package linter is FlowScope's rule-based style checker (spec.md §4.6): a
// fixed ordered list of rules, each a pure function of one statement's raw
// text, byte span, index, and active dialect. Rules never see a shared
// mutable AST — they re-derive whatever structure they need from the
// statement's own text, which keeps each rule's correctness independent of
// the others and trivially testable in isolation.
package linter

import "github.com/flowscope/flowscope/model"

// Context is what every rule's Check receives. The dialect is passed
// explicitly rather than read from ambient state (spec.md §9 "Ambient
// dialect passing" — both designs are conforming; FlowScope picks explicit
// because Go has no ergonomic scoped-thread-local equivalent to reach for).
type Context struct {
	Dialect        model.Dialect
	Raw            string
	StatementIndex int
	Span           model.Span
	QueryType      string
}

// Rule is one lint check (spec.md §4.6): a stable code, a human name and
// description, and a check function. SQLFluffName gives the dotted
// SQLFluff-parity name (e.g. "aliasing.table") the original carried
// alongside its stable LINT_<CAT>_<NN> code — cosmetic metadata, but part
// of a complete rule's identity.
type Rule interface {
	Code() string
	Name() string
	Description() string
	SQLFluffName() string
	Check(ctx Context, opts map[string]string) []model.Issue
}

// Config carries the per-run toggles from model.AnalysisOptions.
type Config struct {
	Enabled       bool
	RuleOverrides map[string]bool
	RuleOptions   map[string]map[string]string
}

func (c Config) ruleEnabled(code string) bool {
	if enabled, ok := c.RuleOverrides[code]; ok {
		return enabled
	}
	return true
}

func (c Config) optionsFor(code string) map[string]string {
	return c.RuleOptions[code]
}

// Linter holds an ordered, fixed rule list (spec.md §9 "no dynamic loading
// is needed").
type Linter struct {
	rules []Rule
}

// New builds a Linter from an explicit rule list, for tests that want a
// subset.
func New(rules ...Rule) *Linter {
	return &Linter{rules: rules}
}

// Default returns the Linter over every built-in rule, in registration
// order — the order issues are dispatched in, which spec.md §4.6 requires
// to be stable across runs.
func Default() *Linter {
	return New(builtinRules()...)
}

// Check dispatches ctx to every enabled rule in registration order,
// concatenating their issues (spec.md §4.6 "Dispatch").
func (l *Linter) Check(ctx Context, cfg Config) []model.Issue {
	if !cfg.Enabled {
		return nil
	}
	var issues []model.Issue
	for _, r := range l.rules {
		if !cfg.ruleEnabled(r.Code()) {
			continue
		}
		found := r.Check(ctx, cfg.optionsFor(r.Code()))
		for _, issue := range found {
			issues = append(issues, issue.WithStatement(ctx.StatementIndex))
		}
	}
	return issues
}
