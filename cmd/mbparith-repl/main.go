// Command mbparith-repl is a small illustrative driver around the
// projection engine. This package is a library with no wire protocol of
// its own (no network listener, no serialized request format); this
// binary exists only so the engine can be exercised from a terminal
// without writing Go, reading one constraint set from stdin and
// printing the projected system.
//
// Input format, one line per formula, extremely small and specific to
// this demo (not a parser worth generalizing beyond it):
//
//	maximize x+y
//	x <= 3
//	x >= 0
//	y <= 5
//	y >= 0
//
// Variable names are whatever identifiers appear; no variable is bound
// in the model, so model completion assigns each one a fresh default
// value (0, 1, 2, ... in the order they are first evaluated).
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	mbp "github.com/gitrdm/mbparith/pkg/mbparith"
)

func main() {
	verbose := flag.Bool("v", false, "trace linearization and elimination to stderr")
	flag.Parse()

	kernel := mbp.NewDemoKernel()
	model := mbp.NewModel()
	tracer := mbp.NopTracer()
	if *verbose {
		tracer = mbp.DefaultTracer()
	}

	vars := map[string]mbp.Term{}
	varOf := func(name string) mbp.Term {
		if t, ok := vars[name]; ok {
			return t
		}
		t := kernel.Var(name, mbp.SortInt)
		vars[name] = t
		return t
	}

	var formulas []mbp.Formula
	var objective mbp.Term

	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rest, ok := strings.CutPrefix(line, "maximize "); ok {
			objective = parseTerm(kernel, varOf, strings.TrimSpace(rest))
			continue
		}
		f, err := parseComparison(kernel, varOf, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %q: %v\n", line, err)
			continue
		}
		formulas = append(formulas, f)
	}
	if err := sc.Err(); err != nil {
		fmt.Fprintln(os.Stderr, "read error:", err)
		os.Exit(1)
	}

	allVars := make([]mbp.Term, 0, len(vars))
	for _, t := range vars {
		allVars = append(allVars, t)
	}

	ctx := context.Background()

	if objective != nil {
		res, err := mbp.Maximize(ctx, kernel, tracer, formulas, model, objective)
		if err != nil {
			fmt.Fprintln(os.Stderr, "maximize failed:", err)
			os.Exit(1)
		}
		fmt.Println("optimum:", res.Optimum)
		fmt.Println("ge:", res.Ge)
		if res.Gt != nil {
			fmt.Println("gt:", res.Gt)
		}
		return
	}

	p := mbp.NewProjector(kernel, tracer, mbp.DefaultConfig())
	ok, err := p.Project(ctx, model, &allVars, &formulas)
	if err != nil {
		fmt.Fprintln(os.Stderr, "project failed:", err)
		os.Exit(1)
	}
	fmt.Println("success:", ok)
	fmt.Println("remaining variables:", len(allVars))
	for _, f := range formulas {
		fmt.Println(" ", f)
	}
}

// parseComparison handles exactly "term <= term", "term >= term", "term
// = term" and their negations are not supported — it is the repl's
// input format, not a general expression parser.
func parseComparison(k *mbp.DemoKernel, varOf func(string) mbp.Term, line string) (mbp.Formula, error) {
	for _, op := range []string{"<=", ">=", "="} {
		if i := strings.Index(line, op); i >= 0 {
			lhs := parseTerm(k, varOf, strings.TrimSpace(line[:i]))
			rhs := parseTerm(k, varOf, strings.TrimSpace(line[i+len(op):]))
			switch op {
			case "<=":
				return k.LE(lhs, rhs), nil
			case ">=":
				return k.GE(lhs, rhs), nil
			default:
				return k.Eq(lhs, rhs), nil
			}
		}
	}
	return nil, fmt.Errorf("no recognized comparison operator in line")
}

// parseTerm handles a sum of (optionally coefficiented) variables and
// integer literals, e.g. "2*x+y-3".
func parseTerm(k *mbp.DemoKernel, varOf func(string) mbp.Term, expr string) mbp.Term {
	expr = strings.ReplaceAll(expr, " ", "")
	expr = strings.ReplaceAll(expr, "-", "+-")
	parts := strings.Split(expr, "+")

	var acc mbp.Term
	for _, part := range parts {
		if part == "" {
			continue
		}
		neg := false
		if strings.HasPrefix(part, "-") {
			neg = true
			part = part[1:]
		}
		var term mbp.Term
		if i := strings.Index(part, "*"); i >= 0 {
			coeff, _ := strconv.ParseInt(part[:i], 10, 64)
			term = k.Mul(k.Numeral(mbp.RatInt(coeff), mbp.SortInt), varOf(part[i+1:]))
		} else if n, err := strconv.ParseInt(part, 10, 64); err == nil {
			term = k.Numeral(mbp.RatInt(n), mbp.SortInt)
		} else {
			term = varOf(part)
		}
		if neg {
			term = k.Neg(term)
		}
		if acc == nil {
			acc = term
		} else {
			acc = k.Add(acc, term)
		}
	}
	if acc == nil {
		return k.Numeral(mbp.RatZero(), mbp.SortInt)
	}
	return acc
}
