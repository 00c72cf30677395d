package registrar

import "context"

// Client is a registrar availability source queried once for a whole batch.
// Any returned error is a wholesale failure: it carries no domain-level
// detail and the caller falls back to the registry lookup path instead.
type Client interface {
	Name() string
	CheckDomains(ctx context.Context, domains []string) ([]DomainCheck, error)
}

type DomainCheck struct {
	Domain    string
	Available bool
	Premium   bool

	// PremiumPrice is set only when Premium is true and the registrar
	// reported a parseable positive price.
	PremiumPrice float64
}
