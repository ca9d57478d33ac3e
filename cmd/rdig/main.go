package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/dnslane/recursor"
	"github.com/linkdata/rate"
)

var flagCpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
var flagMemprofile = flag.String("memprofile", "", "write memory profile to `file`")
var flagTimeout = flag.Int("timeout", 60, "individual query timeout in seconds")
var flagRatelimit = flag.Int("ratelimit", 0, "rate limit queries, 0 means no limit")
var flagCount = flag.Int("count", 1, "repeat count")
var flagSleep = flag.Int("sleep", 0, "sleep ms between repeats")
var flagDebug = flag.Bool("debug", false, "print debug output")

var stringToType = map[string]recursor.Type{
	"A":     recursor.TypeA,
	"NS":    recursor.TypeNS,
	"CNAME": recursor.TypeCNAME,
	"MX":    recursor.TypeMX,
	"AAAA":  recursor.TypeAAAA,
}

func main() {
	flag.Parse()
	if *flagCpuprofile != "" {
		f, err := os.Create(*flagCpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		_ = pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	qtype := recursor.TypeA
	qnames := []string{}
	for _, arg := range flag.Args() {
		if x, ok := stringToType[strings.ToUpper(arg)]; ok {
			qtype = x
		} else {
			qnames = append(qnames, arg)
		}
	}

	if len(qnames) == 0 {
		fmt.Println("missing one or more names to query")
		return
	}

	maxrate := int32(*flagRatelimit) // #nosec G115
	var rateLimiter <-chan struct{}
	if maxrate > 0 {
		rateLimiter = rate.NewTicker(nil, &maxrate).C
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*time.Duration(*flagTimeout))
	defer cancel()

	rec := recursor.NewWithOptions(nil, nil, rateLimiter)
	rec.OrderRoots(ctx)

	var dbgout io.Writer
	if *flagDebug {
		dbgout = os.Stderr
	}

	for i := 0; i < *flagCount; i++ {
		if i > 0 && *flagSleep > 0 {
			time.Sleep(time.Millisecond * time.Duration(*flagSleep))
		}
		for _, qname := range qnames {
			msg, srv, err := rec.ResolveWithOptions(ctx, dbgout, qname, qtype)
			fmt.Printf("; <<>> rdig <<>> %s %s\n", qtype, qname)
			if msg != nil {
				fmt.Println(msg)
			}
			if srv.IsValid() {
				fmt.Printf(";; SERVER: %s\n", srv)
			}
			if err != nil {
				fmt.Printf(";; ERROR: %v\n", err)
			}
		}
	}

	if *flagMemprofile != "" {
		f, err := os.Create(*flagMemprofile)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			log.Fatal("could not write memory profile: ", err)
		}
	}
}
