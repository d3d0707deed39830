package repo

import (
	"strings"
)

const (
	s3Scheme     = "s3://"
	schemeMarker = "://"

	// DefaultInstallURL is the hosted repository installs resolve against.
	DefaultInstallURL = "https://repo.binst.io/"
	// DefaultPublishBucket is the bucket behind DefaultInstallURL.
	DefaultPublishBucket = "binst-repo"
	// DefaultPublishProfile is the AWS profile used for DefaultPublishBucket.
	DefaultPublishProfile = "binst-repo-user"
)

// Parse classifies location into a Descriptor: "s3://" selects S3, "http://"
// and "https://" select Http and anything else is a Local path. profile only
// applies to S3.
func Parse(location, profile string) (Descriptor, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Descriptor{}, NewParseError(location, "repository location cannot be empty")
	}

	switch {
	case strings.HasPrefix(location, s3Scheme):
		s3, err := parseS3(location, profile)
		if err != nil {
			return Descriptor{}, err
		}
		return Descriptor{Kind: KindS3, S3: s3, raw: location}, nil

	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return Descriptor{Kind: KindHTTP, URL: CleanPath(location)}, nil

	default:
		path := CleanPath(location)
		if path == "" {
			return Descriptor{}, NewParseError(location, "local repository path resolves to nothing")
		}
		if strings.HasPrefix(location, "/") {
			path = "/" + path
		}
		return Descriptor{Kind: KindLocal, Path: path}, nil
	}
}

func parseS3(location, profile string) (S3Location, error) {
	rest := strings.TrimPrefix(location, s3Scheme)
	bucket, base, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return S3Location{}, NewParseError(location, "invalid S3 location: missing bucket")
	}
	if strings.HasPrefix(base, "/") {
		return S3Location{}, NewParseError(location, "invalid S3 location: base path cannot start with '/'")
	}
	return S3Location{
		Bucket:  bucket,
		Base:    cleanSegments(base),
		Profile: strings.TrimSpace(profile),
	}, nil
}

// CleanPath collapses repeated slashes and strips leading and trailing ones,
// keeping a single "scheme://" delimiter intact.
func CleanPath(s string) string {
	scheme, rest, found := strings.Cut(s, schemeMarker)
	if !found {
		return cleanSegments(s)
	}
	return cleanSegments(scheme) + schemeMarker + cleanSegments(rest)
}

func cleanSegments(s string) string {
	parts := strings.Split(s, "/")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "/")
}

// DefaultInstallRepo returns the hosted Http repository.
func DefaultInstallRepo() Descriptor {
	return Descriptor{Kind: KindHTTP, URL: CleanPath(DefaultInstallURL)}
}

// DefaultPublishRepo returns the S3 bucket backing the hosted repository.
func DefaultPublishRepo() Descriptor {
	return Descriptor{
		Kind: KindS3,
		S3: S3Location{
			Bucket:  DefaultPublishBucket,
			Profile: DefaultPublishProfile,
		},
		raw: s3Scheme + DefaultPublishBucket,
	}
}
