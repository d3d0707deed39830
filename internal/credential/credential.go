// Package credential resolves the S3 credentials used by a repository
// operation. Strategies are tried in order; each reports whether it does not
// apply, found credentials, or found a malformed source. A malformed source
// stops the chain.
package credential

import (
	"os"

	"github.com/tacogips/binst/internal/debug"
)

// Credentials are the static keys plus the addressing an S3 client needs.
type Credentials struct {
	KeyID     string
	KeySecret string
	Region    string
	Endpoint  string
	Source    string
}

// Outcome is the three-way result of a single strategy.
type Outcome int

const (
	NotApplicable Outcome = iota
	Found
	Malformed
)

// Strategy is one source of credentials.
type Strategy interface {
	Name() string
	Lookup() (Credentials, Outcome, error)
}

// Chain is an ordered list of strategies.
type Chain []Strategy

// EnvSet names the four environment variables of one credential source.
type EnvSet struct {
	KeyID     string
	KeySecret string
	Region    string
	Endpoint  string
}

var (
	// BinstEnv is the tool specific variable set, checked first.
	BinstEnv = EnvSet{
		KeyID:     "BINST_REPO_AWS_KEY_ID",
		KeySecret: "BINST_REPO_AWS_KEY_SECRET",
		Region:    "BINST_REPO_AWS_REGION",
		Endpoint:  "BINST_REPO_AWS_ENDPOINT",
	}
	// AWSEnv is the standard provider variable set.
	AWSEnv = EnvSet{
		KeyID:     "AWS_ACCESS_KEY_ID",
		KeySecret: "AWS_SECRET_ACCESS_KEY",
		Region:    "AWS_DEFAULT_REGION",
		Endpoint:  "AWS_ENDPOINT",
	}
)

// DefaultChain returns profile (when given), then BinstEnv, then AWSEnv.
func DefaultChain(profile string) Chain {
	var chain Chain
	if profile != "" {
		chain = append(chain, NewProfileStrategy(profile))
	}
	return append(chain,
		NewEnvStrategy(BinstEnv, os.Getenv),
		NewEnvStrategy(AWSEnv, os.Getenv),
	)
}

// Resolve is DefaultChain(profile).Resolve().
func Resolve(profile string) (Credentials, error) {
	return DefaultChain(profile).Resolve()
}

// Resolve walks the chain and returns the first credentials found.
func (c Chain) Resolve() (Credentials, error) {
	names := make([]string, 0, len(c))
	for _, s := range c {
		names = append(names, s.Name())
		creds, outcome, err := s.Lookup()
		switch outcome {
		case Found:
			debug.Debug("[credential] Using credentials from %s", s.Name())
			creds.Source = s.Name()
			return creds, nil
		case Malformed:
			return Credentials{}, err
		default:
			debug.Debug("[credential] %s not applicable", s.Name())
		}
	}
	return Credentials{}, NewMissingError(names)
}
