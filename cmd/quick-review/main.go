/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package main implements quick-review, which reviews a GitHub pull request
// or GitLab merge request with a language model and posts the result.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"chainguard.dev/quickreview/agents/decider"
	"chainguard.dev/quickreview/agents/executor"
	"chainguard.dev/quickreview/provider"
	"chainguard.dev/quickreview/review"
	"chainguard.dev/quickreview/reviewagent"
	"github.com/chainguard-dev/clog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"
)

const usage = `Usage: quick-review <PR_OR_MR_URL>
Example: quick-review https://github.com/owner/repo/pull/123`

// errUsage is returned when the argument is missing or not a request URL.
var errUsage = errors.New("usage")

// deps are the collaborators built from configuration. Tests replace them.
type deps struct {
	lookuper    envconfig.Lookuper
	newProvider func(context.Context, config) (provider.Provider, error)
	newDecider  func(context.Context, config) (decider.Decider, error)
}

func defaultDeps() deps {
	return deps{
		lookuper:    envconfig.OsLookuper(),
		newProvider: newProvider,
		newDecider:  newDecider,
	}
}

type options struct {
	output  string
	live    bool
	dryRun  bool
	verbose bool
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, defaultDeps())
	cancel()
	os.Exit(code)
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, d deps) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	cmd := newCommand(d)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(stderr, usage)
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newCommand(d deps) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "quick-review <PR_OR_MR_URL>",
		Short: "Review a pull or merge request and post the result",
		Long: `Review a GitHub pull request or GitLab merge request with a language model.

By default the request is fetched, reviewed, and the review is posted back.
With --live the model fetches content and posts its review through tools.`,
		Example:       "  quick-review https://github.com/owner/repo/pull/123",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errUsage
			}
			if _, err := review.ParseURL(args[0]); err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := review.ParseURL(args[0])
			if err != nil {
				return fmt.Errorf("%w: %w", errUsage, err)
			}
			if opts.output != outputText && opts.output != outputTable {
				return fmt.Errorf("unknown output format %q", opts.output)
			}
			return runReview(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), d, opts, id)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", outputText, "Output format: text or table")
	cmd.Flags().BoolVar(&opts.live, "live", false, "Let the model fetch content and post its review through tools")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Review without posting the result")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	cmd.MarkFlagsMutuallyExclusive("live", "dry-run")
	return cmd
}

func runReview(ctx context.Context, stdout, stderr io.Writer, d deps, opts options, id review.Identity) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	var cfg config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: d.lookuper}); err != nil {
		return fmt.Errorf("processing config: %w", err)
	}

	p, err := d.newProvider(ctx, cfg)
	if err != nil {
		return err
	}
	dec, err := d.newDecider(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating decider: %w", err)
	}
	reviewer, err := reviewagent.New(dec, executor.WithMaxRounds(cfg.MaxRounds))
	if err != nil {
		return err
	}

	clog.FromContext(ctx).Info("Reviewing request", "request", id.String(), "model", dec.Model())

	var v review.Verdict
	switch {
	case opts.live:
		v, err = reviewer.ReviewRequest(ctx, p, id)
	case opts.dryRun:
		v, err = dryRun(ctx, p, reviewer, id)
	default:
		var pipeline *reviewagent.Pipeline
		pipeline, err = reviewagent.NewPipeline(p, reviewer)
		if err == nil {
			v, err = pipeline.Run(ctx, id)
		}
	}
	if err != nil {
		return err
	}
	return writeVerdict(stdout, opts.output, v)
}

// dryRun fetches and reviews id without publishing.
func dryRun(ctx context.Context, p provider.Provider, r *reviewagent.Reviewer, id review.Identity) (review.Verdict, error) {
	b, err := p.Fetch(ctx, id)
	if err != nil {
		return review.Verdict{}, fmt.Errorf("%w: %w", reviewagent.ErrFetch, err)
	}
	v, err := r.Review(ctx, b)
	if err != nil {
		return review.Verdict{}, fmt.Errorf("%w: %w", reviewagent.ErrReview, err)
	}
	return v, nil
}
