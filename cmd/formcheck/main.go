// Command formcheck validates form input against a rule set.
//
// Usage:
//
//	formcheck check [-rules file] [-input payload.json | name=value ...]
//	formcheck serve [-rules file] [-addr :8080]
//
// check prints every field's result and exits 1 when the form is invalid.
// serve runs the HTTP API of package server. Both exit 2 on configuration
// errors. Without -rules the built-in contact form is used.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SimonDaKappa/go-formcheck"
	"github.com/SimonDaKappa/go-formcheck/internal/config"
	"github.com/SimonDaKappa/go-formcheck/internal/logger"
	"github.com/SimonDaKappa/go-formcheck/internal/server"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitConfig  = 2
)

var errBadAssignment = errors.New("expected name=value")

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitConfig
	}

	switch args[0] {
	case "check":
		return runCheck(args[1:], stdin, stdout, stderr)
	case "serve":
		return runServe(ctx, args[1:], stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return exitConfig
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage:")
	fmt.Fprintln(w, "  formcheck check [-rules file] [-input payload.json | name=value ...]")
	fmt.Fprintln(w, "  formcheck serve [-rules file] [-addr :8080]")
}

func runCheck(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", `JSON payload to validate ("-" reads stdin)`)

	cfg, err := config.Load(fs, args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	log, err := logger.New(stderr, "check", cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	specs, err := loadSpecs(cfg.RulesPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to load rule set")
		return exitConfig
	}

	src, err := checkSource(*input, fs.Args(), stdin)
	if err != nil {
		log.Error().Err(err).Msg("failed to read input")
		return exitConfig
	}

	form, err := formcheck.NewFormValidator(src, specs,
		formcheck.WithSink(formcheck.NewWriterSink(stdout)),
		formcheck.WithLogger(log.Logger),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to set up form")
		return exitConfig
	}

	result, err := form.ValidateSource(src)
	if err != nil {
		log.Error().Err(err).Msg("validation aborted")
		return exitConfig
	}

	if !result.Valid() {
		return exitInvalid
	}
	return exitOK
}

// checkSource reads the values to check from a JSON payload or from
// name=value arguments.
func checkSource(input string, assignments []string, stdin io.Reader) (formcheck.BoundSource, error) {
	if input == "" {
		return parseAssignments(assignments)
	}
	if len(assignments) > 0 {
		return nil, errors.New("-input cannot be combined with name=value arguments")
	}

	var (
		data []byte
		err  error
	)
	if input == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, err
	}

	return formcheck.NewJSONSource(data, nil)
}

func parseAssignments(args []string) (formcheck.MapSource, error) {
	values := make(formcheck.MapSource, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w, got %q", errBadAssignment, arg)
		}
		values[name] = value
	}
	return values, nil
}

func runServe(ctx context.Context, args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)

	cfg, err := config.Load(fs, args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	log, err := logger.NewLogger("server", cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitConfig
	}

	specs, err := loadSpecs(cfg.RulesPath)
	if err != nil {
		log.Error().Err(err).Msg("failed to load rule set")
		return exitConfig
	}

	h, err := server.NewHandler(specs, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to set up form")
		return exitConfig
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg.Server, h.Init(), log).Run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		return exitInvalid
	}
	return exitOK
}

func loadSpecs(path string) ([]formcheck.FieldSpec, error) {
	if path == "" {
		return formcheck.ContactForm(), nil
	}
	return formcheck.LoadRuleSetFile(path)
}
