package config

// Secret is a credential that is either set or unset. The zero value is unset.
type Secret struct {
	value string
}

// NewSecret returns a set secret, or an unset one for an empty value.
func NewSecret(v string) Secret { return Secret{value: v} }

// UnmarshalText lets env.Parse populate the secret.
func (s *Secret) UnmarshalText(b []byte) error {
	s.value = string(b)
	return nil
}

// IsSet reports whether a non-empty value is present.
func (s Secret) IsSet() bool { return s.value != "" }

// Value returns the raw credential and whether it is set.
func (s Secret) Value() (string, bool) { return s.value, s.value != "" }

// String never prints the credential.
func (s Secret) String() string {
	if s.value == "" {
		return "<unset>"
	}
	return "<redacted>"
}
