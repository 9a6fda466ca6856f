package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunCheck(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"valid https", []string{"-repo", "https://github.com/org/contract.git"}, ""},
		{"valid ssh with optimizer", []string{"-repo", "git@github.com:org/c.git", "-commit", "main", "-optimizer", "1.0.10"}, ""},
		{"missing repo", nil, "-repo is required"},
		{"bad prefix", []string{"-repo", "ssh://host/x.git"}, "Repository must start with git@ or https://"},
		{"long commit", []string{"-repo", "git@h:x.git", "-commit", strings.Repeat("a", 41)}, "Commit must be at most 40 characters long"},
		{"bad optimizer", []string{"-repo", "git@h:x.git", "-optimizer", "1.0"}, "Optimizer version must have exactly three dot-separated parts"},
		{"unknown flag", []string{"-nope"}, "flag provided but not defined"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := runCheck(tt.args, &out)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if strings.TrimSpace(out.String()) != "ok" {
					t.Errorf("output = %q, want ok", out.String())
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRunCheckHelp(t *testing.T) {
	var out bytes.Buffer
	if err := runCheck([]string{"-h"}, &out); err != nil {
		t.Fatalf("help should not error: %v", err)
	}
	if !strings.Contains(out.String(), "Usage: verifygate check") {
		t.Errorf("help output missing usage: %q", out.String())
	}
}
