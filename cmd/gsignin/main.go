// Package main is the gsignin command line client.
//
//	gsignin login [-mode signin|signup] [-custom]
//	gsignin link | unlink | status | logout
//
// Configuration is read from the environment, see internal/config.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/mousybusiness/gsignin/internal/app"
	"github.com/mousybusiness/gsignin/internal/config"
	"github.com/mousybusiness/gsignin/internal/static"
	"github.com/mousybusiness/gsignin/pkg/session"
	"github.com/mousybusiness/gsignin/pkg/ui"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	c.ApplyLogLevel()

	if err := run(ctx, c, os.Args[1:], os.Stdout, app.Options{Navigator: dashboard(c, os.Stdout)}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// dashboard shows the landing page once signed in.
func dashboard(c config.Config, out io.Writer) session.Navigator {
	return session.NavigatorFunc(func(path string) {
		if c.DashboardURL == "" {
			fmt.Fprintf(out, "-> %s\n", path)
			return
		}
		uri := c.DashboardURL + path
		fmt.Fprintf(out, "-> %s\n", uri)
		if static.IsDesktop() {
			if err := static.Open(uri); err != nil {
				log.Warnf("failed to open dashboard: %v", err)
			}
		}
	})
}

func run(ctx context.Context, c config.Config, args []string, out io.Writer, opts app.Options) error {
	if len(args) == 0 {
		return errors.New("usage: gsignin login|link|unlink|status|logout")
	}

	a, err := app.New(c, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	cmd, args := args[0], args[1:]
	switch cmd {
	case "login":
		fs := flag.NewFlagSet("login", flag.ContinueOnError)
		fs.SetOutput(out)
		mode := fs.String("mode", string(ui.SignInMode), "signin or signup")
		custom := fs.Bool("custom", false, "use the access-token flow")
		if err := fs.Parse(args); err != nil {
			return err
		}
		variant := ui.Standard
		if *custom {
			variant = ui.Custom
		}

		user, b, err := a.SignIn(ctx, ui.Mode(*mode), variant)
		if b != nil {
			fmt.Fprintln(out, b.Render())
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Signed in as %s (%d)\n", user.Email, user.ID)
		return nil

	case "link":
		l, err := a.Link(ctx)
		if l != nil {
			fmt.Fprintln(out, l.Render())
		}
		return err

	case "unlink":
		l, err := a.Unlink(ctx)
		if l != nil {
			fmt.Fprintln(out, l.Render())
		}
		return err

	case "status":
		st := a.Store().State()
		if !st.Authenticated || st.User == nil {
			fmt.Fprintln(out, "Signed out")
			return nil
		}
		fmt.Fprintf(out, "Signed in as %s (%d), google linked: %v\n", st.User.Email, st.User.ID, st.User.GoogleLinked)
		return nil

	case "logout":
		if err := a.Logout(ctx); err != nil {
			return err
		}
		fmt.Fprintln(out, "Signed out")
		return nil
	}

	return errors.Errorf("unknown command %q", cmd)
}
