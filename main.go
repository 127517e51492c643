// Copyright © 2018 The ELPS authors

package main

import "github.com/OMTS/Hop/cmd"

func main() {
	cmd.Execute()
}
