// Copyright © 2018 The ELPS authors

package parser

import (
	"github.com/OMTS/Hop/hop"
	"github.com/OMTS/Hop/parser/rdparser"
)

// NewReader returns a new hop.Reader
func NewReader() hop.Reader {
	return rdparser.NewReader()
}
