package credential

import "strings"

// EnvStrategy reads one EnvSet through getenv.
type EnvStrategy struct {
	set    EnvSet
	getenv func(string) string
}

// NewEnvStrategy creates an EnvStrategy. A nil getenv is not allowed.
func NewEnvStrategy(set EnvSet, getenv func(string) string) *EnvStrategy {
	return &EnvStrategy{set: set, getenv: getenv}
}

// Name implements Strategy.
func (s *EnvStrategy) Name() string {
	return "env " + s.set.KeyID
}

// Lookup implements Strategy. Neither key set is NotApplicable; only one of the
// two keys set, or keys without region and endpoint, is Malformed.
func (s *EnvStrategy) Lookup() (Credentials, Outcome, error) {
	id := strings.TrimSpace(s.getenv(s.set.KeyID))
	secret := strings.TrimSpace(s.getenv(s.set.KeySecret))

	switch {
	case id == "" && secret == "":
		return Credentials{}, NotApplicable, nil
	case id == "" || secret == "":
		return Credentials{}, Malformed, NewMalformedError(s.Name(),
			s.set.KeyID+" and "+s.set.KeySecret+" must be set together")
	}

	creds := Credentials{
		KeyID:     id,
		KeySecret: secret,
		Region:    strings.TrimSpace(s.getenv(s.set.Region)),
		Endpoint:  strings.TrimSpace(s.getenv(s.set.Endpoint)),
	}
	if creds.Region == "" && creds.Endpoint == "" {
		return Credentials{}, Malformed, NewMalformedError(s.Name(),
			"either "+s.set.Region+" or "+s.set.Endpoint+" must be set")
	}
	return creds, Found, nil
}
