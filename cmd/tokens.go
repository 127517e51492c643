// Copyright © 2018 The ELPS authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/OMTS/Hop/parser/lexer"
	"github.com/OMTS/Hop/parser/token"
	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens file",
	Short: "Print the tokens of a hop script",
	Long: `Print the token stream of a hop script, one token per line with its
line and column.  Lexing stops at the first error.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		return dumpTokens(cmd.OutOrStdout(), args[0], string(b))
	},
}

func dumpTokens(w io.Writer, name, src string) error {
	bw := bufio.NewWriter(w)
	lex := lexer.New(token.NewScanner(name, src), true)
	for {
		tok, err := lex.ReadToken()
		if err != nil {
			_ = bw.Flush()
			return err
		}
		fmt.Fprintf(bw, "%d:%d\t%v\n", tok.Source.Line, tok.Source.Col, tok) //nolint:errcheck // checked by Flush
		if tok.Type == token.EOF {
			return bw.Flush()
		}
	}
}

func init() {
	rootCmd.AddCommand(tokensCmd)
}
