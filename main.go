package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/paperjet/paperjet/parser"
)

func main() {
	debug := flag.Bool("debug", false, "log recovered parse errors")
	pretty := flag.Bool("pretty", false, "print the tree with box-drawing branches")
	flag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	in := os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			logrus.Fatal(err)
		}
		defer f.Close()
		in = f
	}

	p, err := parser.NewParser(in)
	if err != nil {
		logrus.Fatal(err)
	}
	doc := p.Parse()

	if *pretty {
		fmt.Println(doc.Dump())
	} else {
		fmt.Println(doc.String())
	}
}
