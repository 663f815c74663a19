package transcribe

import "fmt"

// CredentialMissingError indicates a required API token environment
// variable is not set. Raised before any network call is attempted.
type CredentialMissingError struct {
	Var string // e.g. "OPENAI_API_KEY"
}

func (e *CredentialMissingError) Error() string {
	return fmt.Sprintf("%s not set", e.Var)
}

// UnknownProviderError indicates a provider name outside the known set.
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider: %s", e.Name)
}

// UnsupportedVendorError indicates a multimodal vendor name that does not
// match a known request/response dialect.
type UnsupportedVendorError struct {
	Vendor string
}

func (e *UnsupportedVendorError) Error() string {
	return fmt.Sprintf("unsupported multimodal vendor: %s", e.Vendor)
}

// UpstreamError carries the status and raw body of a non-success response
// from a remote transcription API.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Body)
}
