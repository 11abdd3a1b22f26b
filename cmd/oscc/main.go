// Command oscc sends and receives OSC messages over UDP.
//
// In send mode the positional arguments are the message arguments, each
// written as <typetag>:<data>, for example:
//
//	oscc --mode send --target 127.0.0.1:9000 --pattern /test i:42 s:foo b:bar
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	osc "github.com/pfcm/osclite"
	"github.com/pfcm/osclite/dispatch"
)

var (
	modeFlag     = pflag.String("mode", "", "`mode` in which to run, one of \"send\", \"receive\" or \"demo\"")
	portFlag     = pflag.Uint16("port", 0, "UDP `port` to bind on all interfaces, 0 to only send")
	bufferFlag   = pflag.Int("buffer", 1024, "size in `bytes` of the send and receive buffers")
	targetFlag   = pflag.StringSlice("target", nil, "`ip:port` to send to, may be repeated")
	patternFlag  = pflag.String("pattern", "/test", "`address pattern` to send messages to")
	handleFlag   = pflag.StringSlice("handle", []string{"/test"}, "`addresses` to log messages for in receive mode")
	intervalFlag = pflag.Duration("interval", time.Second, "time between messages in demo mode")
	reinitFlag   = pflag.Duration("reinit", 5*time.Second, "time between client re-initialisations in demo mode")
	ttlFlag      = pflag.Int("ttl", 0, "TTL of outgoing datagrams, 0 for the system default")
	reuseFlag    = pflag.Bool("reuse-addr", false, "set SO_REUSEADDR before binding")
)

func main() {
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var err error
	switch *modeFlag {
	case "send":
		err = send()
	case "receive":
		err = receive(ctx)
	case "demo":
		err = demo(ctx)
	default:
		log.Fatalf("unknown mode %q", *modeFlag)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func newClient() *osc.Client {
	return &osc.Client{
		TTL:       *ttlFlag,
		ReuseAddr: *reuseFlag,
	}
}

func targets() ([]osc.Target, error) {
	var ts []osc.Target
	for _, s := range *targetFlag {
		t, err := parseTarget(s)
		if err != nil {
			return nil, err
		}
		ts = append(ts, t)
	}
	return ts, nil
}

func send() error {
	ts, err := targets()
	if err != nil {
		return err
	}
	if len(ts) == 0 {
		return errors.New("no --target to send to")
	}
	args, err := parseArgs(pflag.Args())
	if err != nil {
		return err
	}
	c := newClient()
	if err := c.Init(*bufferFlag, *portFlag); err != nil {
		return err
	}
	defer c.Close()

	msg := &osc.Message{
		Pattern:   *patternFlag,
		Arguments: args,
	}
	for _, t := range ts {
		log.Printf("Sending %v to %v", msg, t)
		if err := c.SendMessage(t, msg); err != nil {
			return err
		}
	}
	return nil
}

func logMessages(prefix string) osc.Handler {
	return osc.HandlerFunc(func(msg *osc.Message) error {
		log.Printf("%s: recv: %v", prefix, msg)
		return nil
	})
}

func receive(ctx context.Context) error {
	if *portFlag == 0 {
		return errors.New("receive mode needs a --port")
	}
	c := newClient()
	if err := c.Init(*bufferFlag, *portFlag); err != nil {
		return err
	}
	log.Printf("Listening on %v", c.LocalAddr())

	mux := &dispatch.Mux{NotFound: logMessages("unhandled")}
	for _, p := range *handleFlag {
		mux.Add(p, logMessages(p))
	}
	return serve(ctx, c, mux)
}

// serve runs the receive loop of c until it fails or ctx is done, in which
// case c is closed to unblock it.
func serve(ctx context.Context, c *osc.Client, h osc.Handler) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := c.Receive(h)
		if ctx.Err() != nil {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		return c.Close()
	})
	return g.Wait()
}

// demo repeatedly sends a message to every target while receiving on the
// bound port, and re-initialises the client every --reinit. Sending and
// receiving are stopped before each re-initialisation.
func demo(ctx context.Context) error {
	if err := checkDurations(*intervalFlag, *reinitFlag); err != nil {
		return err
	}
	ts, err := targets()
	if err != nil {
		return err
	}
	if len(ts) == 0 && *portFlag != 0 {
		self, err := osc.NewTarget("127.0.0.1", *portFlag)
		if err != nil {
			return err
		}
		ts = append(ts, self)
	}
	msg, err := osc.NewMessage(*patternFlag, "ihfdsb", 42, int64(84), float32(3.14), 6.28, "foo", []byte("bar"))
	if err != nil {
		return err
	}

	c := newClient()
	defer c.Close()
	for ctx.Err() == nil {
		if err := c.Init(*bufferFlag, *portFlag); err != nil {
			log.Printf("Init failed, retrying in %v: %v", *reinitFlag, err)
			select {
			case <-ctx.Done():
			case <-time.After(*reinitFlag):
			}
			continue
		}
		if err := round(ctx, c, ts, msg); err != nil {
			log.Printf("Restarting client: %v", err)
		}
	}
	return nil
}

// round runs one sender and one receiver on c until --reinit has passed or
// either of them fails.
func round(ctx context.Context, c *osc.Client, ts []osc.Target, msg *osc.Message) error {
	rctx, cancel := context.WithTimeout(ctx, *reinitFlag)
	defer cancel()

	g, gctx := errgroup.WithContext(rctx)
	g.Go(func() error {
		tick := time.NewTicker(*intervalFlag)
		defer tick.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-tick.C:
			}
			for _, t := range ts {
				// Failures are logged by the client; keep going.
				c.SendMessage(t, msg)
			}
		}
	})
	if *portFlag != 0 {
		g.Go(func() error {
			return serve(gctx, c, logMessages("demo"))
		})
	}
	return g.Wait()
}
