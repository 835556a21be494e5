// main.go -- build a constant DB backed by a minimal perfect hash
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// main.go is an example of using csfdb.DBWriter() and csfdb.DBReader.
// One can construct the on-disk MPH DB using a variety of input:
//   - white space delimited text file: first field is key, second field is value
//   - Comma Separated text file (CSV): first field is key, second field is value
//
// The underlying MPHF construction can pathologically fail to converge on very
// large or adversarial key sets; -load lets the operator trade table size for a
// better chance of success, and -algo picks which MPHF backend builds the table.

package main

import (
	"fmt"
	"os"
	"strings"

	flag "github.com/opencoff/pflag"

	"github.com/opencoff/go-succinct/csfdb"
)

func main() {
	var load float64
	var verify bool
	var algoName string

	usage := fmt.Sprintf("%s [options] OUTPUT [INPUT ...]", os.Args[0])

	flag.Float64VarP(&load, "load", "l", 0.85, "Use `L` as the hash table load factor")
	flag.BoolVarP(&verify, "verify", "V", false, "Verify a constant DB")
	flag.StringVarP(&algoName, "algo", "a", "phast", "Use `ALGO` (phast or chd) as the MPHF backend")
	flag.Usage = func() {
		fmt.Printf("csfdb - create a constant MPH DB from txt or CSV files\nUsage: %s\n", usage)
		flag.PrintDefaults()
	}

	flag.Parse()
	args := flag.Args()

	if len(args) < 1 {
		die("No output file name!\nUsage: %s\n", usage)
	}

	fn := args[0]
	args = args[1:]

	if verify {
		db, err := csfdb.NewDBReader(fn, 1000)
		if err != nil {
			die("Can't read %s: %s", fn, err)
		}

		fmt.Printf("%s: %d table slots\n", fn, db.Len())
		db.Close()
		return
	}

	algo, err := csfdb.ParseAlgo(algoName)
	if err != nil {
		die("%s", err)
	}

	db, err := csfdb.NewDBWriter(fn, algo)
	if err != nil {
		die("can't create MPH DB: %s", err)
	}

	var n uint64
	if len(args) > 0 {
		for _, f := range args {
			switch {
			case strings.HasSuffix(f, ".txt"):
				n, err = AddTextFile(db, f, " \t")

			case strings.HasSuffix(f, ".csv"):
				n, err = AddCSVFile(db, f, ',', '#', 0, 1)

			default:
				warn("Don't know how to add %s", f)
				continue
			}

			if err != nil {
				warn("can't add %s: %s", f, err)
				continue
			}

			fmt.Printf("+ %s: %d records\n", f, n)
		}
	} else {
		n, err = AddTextStream(db, os.Stdin, " \t")
		if err != nil {
			db.Abort()
			die("can't add STDIN: %s", err)
		}

		fmt.Printf("+ <STDIN>: %d records\n", n)
	}

	err = db.Freeze(load)
	if err != nil {
		db.Abort()
		die("can't write db %s: %s", fn, err)
	}
}

// die with error
func die(f string, v ...interface{}) {
	warn(f, v...)
	os.Exit(1)
}

func warn(f string, v ...interface{}) {
	z := fmt.Sprintf("%s: %s", os.Args[0], f)
	s := fmt.Sprintf(z, v...)
	if n := len(s); s[n-1] != '\n' {
		s += "\n"
	}

	os.Stderr.WriteString(s)
	os.Stderr.Sync()
}

// vim: ft=go:sw=4:ts=4:noexpandtab:tw=78:
