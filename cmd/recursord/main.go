package main

import (
	"context"
	"flag"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dnslane/recursor"
	"github.com/linkdata/rate"
)

var flagListen = flag.String("listen", ":2053", "UDP address to answer queries on")
var flagTimeout = flag.Int("timeout", 5, "upstream query timeout in seconds")
var flagRatelimit = flag.Int("ratelimit", 0, "rate limit upstream queries per second, 0 means no limit")
var flagOrderRoots = flag.Bool("orderroots", true, "sort root servers by latency at startup")
var flagDebug = flag.Bool("debug", false, "print debug output")

func main() {
	flag.Parse()

	maxrate := int32(*flagRatelimit) // #nosec G115
	var rateLimiter <-chan struct{}
	if maxrate > 0 {
		rateLimiter = rate.NewTicker(nil, &maxrate).C
	}

	rec := recursor.NewWithOptions(nil, nil, rateLimiter)
	rec.Timeout = time.Second * time.Duration(*flagTimeout)

	var dbgout io.Writer
	if *flagDebug {
		dbgout = os.Stderr
	}
	rec.DefaultLogWriter = dbgout

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *flagOrderRoots {
		rec.OrderRoots(ctx)
	}

	pconn, err := net.ListenPacket("udp", *flagListen)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("listening on %s", pconn.LocalAddr())
	srv := recursor.NewServer(rec)
	if err := srv.Serve(ctx, pconn); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}
