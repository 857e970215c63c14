package cache

import "strings"

// Namespacer prefixes logical keys with an application and environment so
// several services can share one store.
//
// The zero value namespaces under an empty application and environment.
type Namespacer struct {
	application string
	environment string
}

// NewNamespacer creates a Namespacer. Dots in application become delimiters,
// so "Billing.Api" namespaces as "BILLING|API".
func NewNamespacer(application, environment string) Namespacer {
	return Namespacer{
		application: strings.ReplaceAll(application, ".", Delimiter),
		environment: environment,
	}
}

// Prefix returns the namespace segment for application, or for the
// configured application when it is empty.
func (n Namespacer) Prefix(application string) string {
	if application == "" {
		application = n.application
	}
	return application + Delimiter + n.environment
}

// Key returns the upper-cased namespaced form of logicalKey.
// It does not reject blank keys; backends do.
func (n Namespacer) Key(logicalKey, application string) string {
	return strings.ToUpper(n.Prefix(application) + Delimiter + logicalKey)
}

// JoinKeys joins keys with the delimiter, optionally preceded by the
// namespace prefix. Case is preserved.
func (n Namespacer) JoinKeys(keys []string, includePrefix bool, application string) string {
	parts := make([]string, 0, len(keys)+1)
	if includePrefix {
		parts = append(parts, n.Prefix(application))
	}
	parts = append(parts, keys...)
	return strings.Join(parts, Delimiter)
}
