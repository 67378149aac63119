// Command errsdemo builds one Internal and one BadFormat error value and prints their renderings.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/studtool/c-errs/pkg/errs"
)

func main() {
	strict := flag.Bool("strict-json", false, "escape messages in the JSON rendering")
	flag.Parse()

	var opts []errs.Option
	if *strict {
		opts = append(opts, errs.WithStrictJSON())
	}
	if err := run(os.Stdout, opts...); err != nil {
		fmt.Fprintln(os.Stderr, "errsdemo:", err)
		os.Exit(1)
	}
}

func run(w io.Writer, opts ...errs.Option) error {
	err := errs.Scoped(errs.KindInternal, int8(errs.KindInternal), "internal error", func(v *errs.Value) error {
		_, err := fmt.Fprintln(w, v.Text())
		return err
	}, opts...)
	if err != nil {
		return fmt.Errorf("internal value: %w", err)
	}

	err = errs.Scoped(errs.KindBadFormat, int8(errs.KindBadFormat), "bad format error", func(v *errs.Value) error {
		_, err := fmt.Fprintln(w, v.JSON())
		return err
	}, opts...)
	if err != nil {
		return fmt.Errorf("bad format value: %w", err)
	}
	return nil
}
