// Command authctl drives the auth flow from a terminal: register, verify,
// login and the rest, with the session kept in the configured token store.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/realio-auth/config"
	"github.com/oksasatya/realio-auth/internal/container"
	"github.com/oksasatya/realio-auth/internal/domain/autherr"
	"github.com/oksasatya/realio-auth/pkg/helpers"
)

const usage = `usage: authctl [flags] <command> [args]

commands:
  register NAME EMAIL PASSWORD
  verify EMAIL OTP
  resend EMAIL
  login EMAIL PASSWORD
  oauth-login PROVIDER TOKEN
  oauth-register PROVIDER TOKEN EMAIL
  me
  user ID
  upload PATH
  logout
  status
  strength PASSWORD

flags:
`

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	fs := flag.NewFlagSet("authctl", flag.ExitOnError)
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "auth API base URL")
	fs.StringVar(&cfg.TokenStore, "store", cfg.TokenStore, "token store: file, redis or memory")
	fs.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "session file for the file store")
	verbose := fs.Bool("v", false, "print operation state changes")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[1:])
	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(2)
	}

	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	logger.SetOutput(os.Stderr)
	if !*verbose && cfg.LogLevel == "" {
		logger.SetLevel(logrus.WarnLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{out: os.Stdout, errOut: os.Stderr, verbose: *verbose}
	cmd, args := fs.Arg(0), fs.Args()[1:]
	if cmd != "strength" {
		c, err := container.New(cfg, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer func() { _ = c.Close() }()
		a.uc = c.UseCases
	}

	if err := a.run(ctx, cmd, args); err != nil {
		fmt.Fprintln(os.Stderr, autherr.UserMessage(err))
		stop()
		os.Exit(1)
	}
}
