package ehparse

// Shortfall is the outcome an extractor reports when a page is parseable but
// does not meet its shape requirements, e.g. fewer repeated elements than
// expected.
type Shortfall string

// Shortfall outcomes.
const (
	ShortfallNotApplicable Shortfall = "not_applicable"
	ShortfallMalformed     Shortfall = "malformed"
)

// Policy configures how an extractor classifies shortfalls.
type Policy struct {
	Shortfall Shortfall `yaml:"shortfall"`
}

// DefaultPolicy reports shortfalls as ENOTAPPLICABLE so the host may fall back
// to another parser.
func DefaultPolicy() Policy {
	return Policy{Shortfall: ShortfallNotApplicable}
}

// Validate returns an error if the policy contains invalid fields.
func (p Policy) Validate() error {
	switch p.Shortfall {
	case ShortfallNotApplicable, ShortfallMalformed:
		return nil
	}
	return Errorf(EINVALID, "unknown shortfall outcome %q", p.Shortfall)
}

// Shortfallf returns the error p prescribes for a shape shortfall.
func (p Policy) Shortfallf(format string, args ...any) error {
	if p.Shortfall == ShortfallMalformed {
		return Errorf(EMALFORMED, format, args...)
	}
	return Errorf(ENOTAPPLICABLE, format, args...)
}

// Policies holds a policy per page kind. Kinds without an entry use DefaultPolicy.
type Policies map[Kind]Policy

// For returns the policy for kind.
func (p Policies) For(kind Kind) Policy {
	if pol, ok := p[kind]; ok {
		return pol
	}
	return DefaultPolicy()
}
