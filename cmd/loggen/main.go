// Command loggen writes a synthetic web server log in the raw CSV
// convention, for trying out the service and for upload tests.
//
//	loggen -n 5000 -o web_server_logs.csv
//	loggen -n 50000 -compress zstd -o logs.csv.zst
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"loginsight/internal/analytics"
	"loginsight/internal/logging"
)

func main() {
	n := flag.Int("n", 5000, "number of log entries")
	out := flag.String("o", "web_server_logs.csv", "output file, - for stdout")
	seed := flag.Uint64("seed", 0, "random seed, 0 picks one from the clock")
	compress := flag.String("compress", "none", "none, gzip or zstd")
	flag.Parse()

	if err := run(*n, *out, *seed, *compress); err != nil {
		logging.Fatal().Err(err).Msg("loggen failed")
	}
	if *out != "-" {
		logging.Info().Int("rows", *n).Str("file", *out).Msg("generated log")
	}
}

func run(n int, out string, seed uint64, compress string) (err error) {
	if n <= 0 {
		return fmt.Errorf("-n must be positive, got %d", n)
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var dst io.Writer = os.Stdout
	if out != "-" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); err == nil {
				err = cerr
			}
		}()
		dst = f
	}
	bw := bufio.NewWriter(dst)

	w, closeFn, err := wrap(bw, compress)
	if err != nil {
		return err
	}
	if err := analytics.WriteRawCSV(w, analytics.SampleLog(rand.New(rand.NewPCG(seed, seed>>1)), n)); err != nil {
		return err
	}
	if err := closeFn(); err != nil {
		return err
	}
	return bw.Flush()
}

func wrap(w io.Writer, compress string) (io.Writer, func() error, error) {
	switch compress {
	case "", "none":
		return w, func() error { return nil }, nil
	case "gzip":
		zw := gzip.NewWriter(w)
		return zw, zw.Close, nil
	case "zstd":
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, nil, err
		}
		return zw, zw.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown -compress %q", compress)
	}
}
