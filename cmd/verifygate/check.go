package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Strob0t/VerifyGate/internal/domain"
	"github.com/Strob0t/VerifyGate/internal/domain/verification"
)

// runCheck validates an enqueue request offline, without contacting the queue.
func runCheck(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(out)
	repo := fs.String("repo", "", "repository URL, git@host:path or https://...git (required)")
	commit := fs.String("commit", verification.DefaultCommit, "commit hash or branch")
	optimizer := fs.String("optimizer", "", "optimizer version, e.g. 1.0.10")
	fs.Usage = func() {
		fmt.Fprintf(out, `Usage: verifygate check -repo <url> [-commit <ref>] [-optimizer <x.y.z>]

Validates the inputs of an enqueue request without contacting the queue.

Examples:
  verifygate check -repo https://github.com/org/contract.git
  verifygate check -repo git@github.com:org/contract.git -commit main -optimizer 1.0.10

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if *repo == "" {
		fs.Usage()
		return errors.New("-repo is required")
	}

	req := verification.EnqueueRequest{Repo: *repo, Commit: *commit, Optimizer: *optimizer}
	if err := req.Validate(); err != nil {
		return errors.New(strings.TrimPrefix(err.Error(), domain.ErrValidation.Error()+": "))
	}

	fmt.Fprintln(out, "ok")
	return nil
}
