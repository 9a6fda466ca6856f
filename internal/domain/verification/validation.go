package verification

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Strob0t/VerifyGate/internal/domain"
)

const (
	sshPrefix   = "git@"
	httpsPrefix = "https://"

	minCommitLen = 4
	maxCommitLen = 40

	optimizerParts = 3
)

// invalid wraps a rule message so that errors.Is(err, domain.ErrValidation)
// holds and the message survives as the suffix.
func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}

// ValidateRepo checks a repository URL. Rules are applied in order and the
// first failure wins.
func ValidateRepo(repo string) error {
	isSSH := strings.HasPrefix(repo, sshPrefix)
	isHTTPS := strings.HasPrefix(repo, httpsPrefix)

	if !isSSH && !isHTTPS {
		return invalid("Repository must start with git@ or https://")
	}
	if isHTTPS && !strings.HasSuffix(repo, ".git") {
		return invalid("Repository must end with .git")
	}
	for i := 0; i < len(repo); i++ {
		if !isRepoChar(repo[i]) {
			return invalid("Repository must only contain alphanumeric characters, ., -, _, @, : or /")
		}
	}
	if strings.Contains(repo, "..") {
		return invalid("Repository must not contain ..")
	}

	var ok bool
	if isSSH {
		ok = isSSHLocation(repo)
	} else {
		ok = isHTTPSLocation(repo)
	}
	if !ok {
		return invalid("Repository must be a valid URL")
	}
	return nil
}

// ValidateCommit checks a commit hash or branch reference. HEAD, main and
// master (any case for the branch names) bypass the length check.
func ValidateCommit(commit string) error {
	if commit == DefaultCommit || strings.EqualFold(commit, "main") || strings.EqualFold(commit, "master") {
		return nil
	}
	if len(commit) < minCommitLen {
		return invalid(fmt.Sprintf("Commit must be at least %d characters long", minCommitLen))
	}
	if len(commit) > maxCommitLen {
		return invalid(fmt.Sprintf("Commit must be at most %d characters long", maxCommitLen))
	}
	return nil
}

// ValidateOptimizer checks a MAJOR.MINOR.PATCH version made of digits only.
func ValidateOptimizer(version string) error {
	parts := strings.Split(version, ".")
	if len(parts) != optimizerParts {
		return invalid("Optimizer version must have exactly three dot-separated parts")
	}
	for _, p := range parts {
		if !isDigits(p) {
			return invalid("Optimizer version parts must only contain digits")
		}
	}
	return nil
}

func isRepoChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '.', c == '-', c == '_', c == '@', c == ':', c == '/':
		return true
	}
	return false
}

// isDigits reports whether s is non-empty and made of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isSSHLocation accepts the scp-like git@host:path form, which is not a URL
// in the RFC 3986 sense.
func isSSHLocation(repo string) bool {
	host, path, found := strings.Cut(strings.TrimPrefix(repo, sshPrefix), ":")
	if !found || host == "" || path == "" {
		return false
	}
	return !strings.ContainsAny(host, "@/")
}

func isHTTPSLocation(repo string) bool {
	u, err := url.Parse(repo)
	if err != nil {
		return false
	}
	return u.Scheme == "https" && u.Hostname() != ""
}
