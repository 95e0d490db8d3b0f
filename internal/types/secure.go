package types

const redactedPlaceholder = "***REDACTED***"

var redactedJSON = []byte(`"***REDACTED***"`)

// SecretString holds a credential such as a database URL. It prints and
// marshals as a placeholder so config dumps and structured logs never carry
// the raw value. Call Unmask where the driver needs the plaintext.
type SecretString string

func (s SecretString) String() string {
	return redactedPlaceholder
}

// MarshalJSON always emits the placeholder.
func (s SecretString) MarshalJSON() ([]byte, error) {
	return redactedJSON, nil
}

// MarshalText keeps YAML and text encoders from leaking the value.
func (s SecretString) MarshalText() ([]byte, error) {
	return []byte(redactedPlaceholder), nil
}

// IsSet reports whether a value was configured.
func (s SecretString) IsSet() bool {
	return s != ""
}

// Unmask returns the plaintext value.
func (s SecretString) Unmask() string {
	return string(s)
}
