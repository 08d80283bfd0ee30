package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-stockform/internal/config"
	"github.com/goliatone/go-stockform/internal/logging"
	"github.com/goliatone/go-stockform/pkg/orchestrator"
	"github.com/goliatone/go-stockform/pkg/renderers/tui"
	"github.com/goliatone/go-stockform/pkg/session"
	"github.com/goliatone/go-stockform/pkg/workflow"
)

const usage = `usage:
  stockform-cli [-config path] [-dotenv file] [add]
  stockform-cli [-config path] [-dotenv file] add -values file.yaml
  stockform-cli [-config path] [-dotenv file] session set -godown-id ID [-user-id ID] [-name NAME] [-email EMAIL] [-token TOKEN]`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := run(ctx, os.Args[1:], os.Stdout)
	switch {
	case err == nil:
	case errors.Is(err, tui.ErrAborted), errors.Is(err, tui.ErrDiscarded):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(130)
	default:
		logrus.Fatalf("stockform-cli: %v", err)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("stockform-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configPath := fs.String("config", "", "YAML configuration file")
	dotenv := fs.String("dotenv", "", "dotenv file loaded before reading the environment")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}

	var envFiles []string
	if strings.TrimSpace(*dotenv) != "" {
		envFiles = append(envFiles, *dotenv)
	}
	cfg, err := config.Load(*configPath, envFiles...)
	if err != nil {
		return err
	}
	logger := logging.New(cfg.Logging)

	rest := fs.Args()
	command := "add"
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	switch command {
	case "add":
		return runAdd(ctx, cfg, logger, rest, stdout)
	case "session":
		return runSession(ctx, cfg, logger, rest)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func runAdd(ctx context.Context, cfg config.Config, logger *logrus.Logger, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	valuesPath := fs.String("values", "", "YAML file with field values; skips the interactive screen")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}

	store, closeStore, err := openStore(ctx, cfg.Session)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.WithError(err).Warn("close session store")
		}
	}()

	options := []orchestrator.Option{
		orchestrator.WithBaseURL(cfg.API.BaseURL),
		orchestrator.WithTimeout(cfg.API.Timeout),
		orchestrator.WithRoutesDocument(cfg.API.RoutesDocument),
		orchestrator.WithRouteOverride(orchestrator.RouteOverride{Path: cfg.API.AddProductPath}),
		orchestrator.WithHeaders(cfg.API.Headers),
		orchestrator.WithSessions(session.NewStoreProvider(store, cfg.Session.Key)),
		orchestrator.WithMessages(cfg.Messages),
		orchestrator.WithDestination(cfg.Navigation.Destination),
		orchestrator.WithLogger(logger),
	}

	if *valuesPath != "" {
		values, err := readValues(*valuesPath)
		if err != nil {
			return err
		}
		sub, err := orchestrator.New(options...).Prepare(ctx)
		if err != nil {
			return err
		}
		return submitValues(ctx, sub, values)
	}

	driver := tui.NewSurveyDriver(stdout)
	presenter := tui.NewPresenter(driver, cfg.Messages, tui.DefaultTheme())
	sub, err := orchestrator.New(append(options, orchestrator.WithPresenter(presenter))...).Prepare(ctx)
	if err != nil {
		return err
	}

	destination, err := tui.NewScreen(sub.Form, sub, tui.WithPromptDriver(driver)).Run(ctx)
	if err != nil {
		return err
	}
	logger.WithField("destination", destination).Debug("add-product screen closed")
	return nil
}

// submitValues runs a single non-interactive attempt. Any outcome other than
// success is returned as an error so the process exits non-zero.
func submitValues(ctx context.Context, sub *orchestrator.Submission, values map[string]string) error {
	if err := sub.Fill(values); err != nil {
		return err
	}
	res, err := sub.Submit(ctx)
	if err != nil {
		return err
	}
	switch res.Outcome {
	case workflow.OutcomeSuccess:
		return nil
	case workflow.OutcomeInvalid:
		return fmt.Errorf("invalid values: %s", describeFieldErrors(res.FieldErrors))
	default:
		return fmt.Errorf("submission failed: %w", res.Err)
	}
}

func describeFieldErrors(errs map[string]string) string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + errs[name]
	}
	return strings.Join(parts, "; ")
}

func runSession(ctx context.Context, cfg config.Config, logger *logrus.Logger, args []string) error {
	if len(args) == 0 || args[0] != "set" {
		return fmt.Errorf("expected \"session set\"\n%s", usage)
	}
	fs := flag.NewFlagSet("session set", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var record session.Session
	fs.StringVar(&record.GodownID, "godown-id", "", "godown id stamped on every product")
	fs.StringVar(&record.UserID, "user-id", "", "user id")
	fs.StringVar(&record.Name, "name", "", "display name")
	fs.StringVar(&record.Email, "email", "", "email address")
	fs.StringVar(&record.Token, "token", "", "API token")
	if err := fs.Parse(args[1:]); err != nil {
		return fmt.Errorf("%w\n%s", err, usage)
	}

	if err := writeSession(ctx, cfg.Session, record); err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"backend":   cfg.Session.Backend,
		"godown_id": record.GodownID,
	}).Info("session saved")
	return nil
}
