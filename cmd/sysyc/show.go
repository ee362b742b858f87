package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/nihei9/sysyc/grammar"
	"github.com/nihei9/sysyc/spec"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <report file path>",
		Short:   "Print a report in a readable format",
		Example: `  sysyc show sysy-report.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) (retErr error) {
	defer recoverPanic(&retErr)

	report, err := readReport(args[0])
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, report)
}

func readReport(path string) (*spec.Report, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open the report %s: %w", path, err)
	}

	report := &spec.Report{}
	err = json.Unmarshal(d, report)
	if err != nil {
		return nil, err
	}

	return report, nil
}

const reportTemplate = `# Conflicts

{{ printConflictSummary . }}

# Terminals

{{ range slice .Terminals 1 -}}
{{ printTerminal . }}
{{ end }}
# Productions

{{ range slice .Productions 1 -}}
{{ printProduction . }}
{{ end }}
# States
{{ range .States }}
## State {{ .Number }}

{{ range .Kernel -}}
{{ printItem . }}
{{ end }}
{{ range .Shift -}}
{{ printShift . }}
{{ end -}}
{{ range .Reduce -}}
{{ printReduce . }}
{{ end -}}
{{ if .Accept -}}
accept on $
{{ end -}}
{{ range .GoTo -}}
{{ printGoTo . }}
{{ end }}
{{ range .SRConflict -}}
{{ printSRConflict . }}
{{ end -}}
{{ range .RRConflict -}}
{{ printRRConflict . }}
{{ end -}}
{{ end }}`

func writeReport(w io.Writer, report *spec.Report) error {
	termName := func(sym int) string {
		if sym < 0 || sym >= len(report.Terminals) || report.Terminals[sym] == nil {
			return fmt.Sprintf("<%v>", sym)
		}
		return report.Terminals[sym].Name
	}

	nonTermName := func(sym int) string {
		if sym < 0 || sym >= len(report.NonTerminals) || report.NonTerminals[sym] == nil {
			return fmt.Sprintf("<%v>", sym)
		}
		return report.NonTerminals[sym].Name
	}

	symName := func(sym int) string {
		if sym > 0 {
			return termName(sym)
		}
		return nonTermName(sym * -1)
	}

	fns := template.FuncMap{
		"printConflictSummary": func(report *spec.Report) string {
			sr, rr := report.ConflictCount()
			var b strings.Builder
			if sr > 0 {
				fmt.Fprintf(&b, "%v shift/reduce conflicts occurred and were resolved by shifting.\n", sr)
			}
			if rr > 0 {
				fmt.Fprintf(&b, "%v reduce/reduce conflicts occurred and were resolved by the production order.\n", rr)
			}
			if sr == 0 && rr == 0 {
				fmt.Fprintf(&b, "No conflict")
			}
			return b.String()
		},
		"printTerminal": func(term *spec.Terminal) string {
			return fmt.Sprintf("%4v %v", term.Number, term.Name)
		},
		"printProduction": func(prod *spec.Production) string {
			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			if len(prod.RHS) > 0 {
				for _, e := range prod.RHS {
					fmt.Fprintf(&b, " %v", symName(e))
				}
			} else {
				fmt.Fprintf(&b, " ε")
			}
			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printItem": func(item *spec.Item) string {
			if item.Production < 0 || item.Production >= len(report.Productions) || report.Productions[item.Production] == nil {
				return fmt.Sprintf("%4v ?", item.Production)
			}
			prod := report.Productions[item.Production]

			var b strings.Builder
			fmt.Fprintf(&b, "%v →", nonTermName(prod.LHS))
			for i, e := range prod.RHS {
				if i == item.Dot {
					fmt.Fprintf(&b, " ・")
				}
				fmt.Fprintf(&b, " %v", symName(e))
			}
			if item.Dot >= len(prod.RHS) {
				fmt.Fprintf(&b, " ・")
			}
			return fmt.Sprintf("%4v %v", prod.Number, b.String())
		},
		"printShift": func(tran *spec.Transition) string {
			return fmt.Sprintf("shift  %4v on %v", tran.State, termName(tran.Symbol))
		},
		"printReduce": func(reduce *spec.Reduce) string {
			las := make([]string, len(reduce.LookAhead))
			for i, a := range reduce.LookAhead {
				las[i] = termName(a)
			}
			return fmt.Sprintf("reduce %4v on %v", reduce.Production, strings.Join(las, ", "))
		},
		"printGoTo": func(tran *spec.Transition) string {
			return fmt.Sprintf("goto   %4v on %v", tran.State, nonTermName(tran.Symbol))
		},
		"printSRConflict": func(sr *spec.SRConflict) string {
			var adopted string
			switch {
			case sr.AdoptedState != nil:
				adopted = fmt.Sprintf("shift %v", *sr.AdoptedState)
			case sr.AdoptedProduction != nil:
				adopted = fmt.Sprintf("reduce %v", *sr.AdoptedProduction)
			}
			resolvedBy := "?"
			if sr.ResolvedBy == grammar.ResolvedByShift.Int() {
				resolvedBy = "a shift is preferred to a reduction"
			}
			return fmt.Sprintf("shift/reduce conflict (shift %v, reduce %v) on %v: %v adopted because %v", sr.State, sr.Production, termName(sr.Symbol), adopted, resolvedBy)
		},
		"printRRConflict": func(rr *spec.RRConflict) string {
			resolvedBy := "?"
			if rr.ResolvedBy == grammar.ResolvedByProdOrder.Int() {
				resolvedBy = fmt.Sprintf("production %v was registered first", rr.AdoptedProduction)
			}
			return fmt.Sprintf("reduce/reduce conflict (%v, %v) on %v: reduce %v adopted because %v", rr.Production1, rr.Production2, termName(rr.Symbol), rr.AdoptedProduction, resolvedBy)
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, report)
}
