package repo

import "fmt"

// Kind identifies the backend a Descriptor addresses.
type Kind int

const (
	KindLocal Kind = iota
	KindS3
	KindHTTP
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLocal:
		return "local"
	case KindS3:
		return "s3"
	case KindHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// S3Location addresses a bucket and an optional key prefix.
type S3Location struct {
	Bucket  string
	Base    string
	Profile string
}

// Descriptor is a parsed repository location. Exactly one of Path, S3 or URL
// is meaningful, selected by Kind.
type Descriptor struct {
	Kind Kind
	Path string
	S3   S3Location
	URL  string

	raw string
}

// Raw returns the location as persisted in install records.
func (d Descriptor) Raw() string {
	if d.raw != "" {
		return d.raw
	}
	switch d.Kind {
	case KindLocal:
		return d.Path
	case KindS3:
		if d.S3.Base == "" {
			return s3Scheme + d.S3.Bucket
		}
		return s3Scheme + d.S3.Bucket + "/" + d.S3.Base
	case KindHTTP:
		return d.URL
	default:
		return ""
	}
}

// CanPublish reports whether artifacts can be uploaded to the repository.
func (d Descriptor) CanPublish() bool {
	return d.Kind != KindHTTP
}

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	if d.Kind == KindS3 && d.S3.Profile != "" {
		return fmt.Sprintf("%s (profile %s)", d.Raw(), d.S3.Profile)
	}
	return d.Raw()
}
