// Copyright © 2018 The ELPS authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/hop/hoplib"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

var modulesCmd = &cobra.Command{
	Use:   "modules [name]",
	Short: "Document the native modules",
	Long: `List the native modules available for import, or document the
constants and functions of the named module.

Examples:
  hop modules
  hop modules Math`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := hoplib.NewSession()
		if err != nil {
			return err
		}
		if len(args) == 0 {
			return renderModuleList(cmd.OutOrStdout(), s.NativeModules())
		}
		for _, mod := range s.NativeModules() {
			if mod.Name == args[0] {
				return renderModule(cmd.OutOrStdout(), mod)
			}
		}
		return hop.Errorf(hop.ModuleNotFound, nil, "%s", args[0])
	},
}

func renderModuleList(w io.Writer, mods []*hop.Module) error {
	bw := bufio.NewWriter(w)
	for _, mod := range mods {
		fmt.Fprintf(bw, "%-8s %s\n", mod.Name, summary(mod.Doc)) //nolint:errcheck // checked by Flush
	}
	return bw.Flush()
}

func renderModule(w io.Writer, mod *hop.Module) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "module %s\n", mod.Name) //nolint:errcheck // checked by Flush
	if doc := cleanDoc(mod.Doc, 0); doc != "" {
		fmt.Fprintf(bw, "\n%s\n", doc) //nolint:errcheck // checked by Flush
	}
	mod.Scope.Each(func(name string, sym hop.Symbol) {
		switch sym := sym.(type) {
		case *hop.Variable:
			fmt.Fprintf(bw, "\nconst %s: %v = %s\n", name, sym.Type, hop.FormatValue(sym.Value())) //nolint:errcheck // checked by Flush
		case *hop.Closure:
			fmt.Fprintf(bw, "\nfunc %s\n", prototype(sym.Prototype)) //nolint:errcheck // checked by Flush
			if doc := cleanDoc(sym.Doc, 4); doc != "" {
				fmt.Fprintln(bw, doc) //nolint:errcheck // checked by Flush
			}
		}
	})
	return bw.Flush()
}

// prototype renders p the way a function declaring it is written.
func prototype(p *hop.Prototype) string {
	args := make([]string, len(p.Args))
	for i, arg := range p.Args {
		switch arg.Label {
		case hop.AnonymousLabel:
			args[i] = fmt.Sprintf("#%s: %v", arg.Name, arg.Type)
		case arg.Name:
			args[i] = fmt.Sprintf("%s: %v", arg.Name, arg.Type)
		default:
			args[i] = fmt.Sprintf("%s %s: %v", arg.Label, arg.Name, arg.Type)
		}
	}
	s := p.Name + "(" + strings.Join(args, ", ") + ")"
	if p.Return != hop.TypeVoid {
		s += fmt.Sprintf(" -> %v", p.Return)
	}
	return s
}

// cleanDoc joins the lines of doc and wraps the text at 72 columns, indented
// by n spaces.
func cleanDoc(doc string, n uint) string {
	doc = strings.Join(strings.Fields(doc), " ")
	if doc == "" {
		return ""
	}
	doc = indent.String(wordwrap.String(doc, 72), n)
	return strings.TrimSuffix(doc, "\n")
}

// summary returns the first sentence of doc.
func summary(doc string) string {
	doc = strings.Join(strings.Fields(doc), " ")
	if i := strings.Index(doc, ". "); i >= 0 {
		return doc[:i+1]
	}
	return doc
}

func init() {
	rootCmd.AddCommand(modulesCmd)
}
