package ports

import "context"

// Secret is a single secret value with its version metadata.
type Secret struct {
	Value     string
	Version   string
	CreatedAt string
	Metadata  map[string]string
}

// SecretManager retrieves merchant credentials from a secret backend.
type SecretManager interface {
	GetSecret(ctx context.Context, path string) (*Secret, error)
}
