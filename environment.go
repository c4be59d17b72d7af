package phttp

// Environment is the process-wide runtime flag the error normalizer consults to decide
// diagnostic verbosity. It is passed in explicitly at dispatcher construction and never
// mutated during dispatch.
type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Testing     Environment = "testing"
)

// IsProduction reports whether error responses must be stripped of internal detail.
func (e Environment) IsProduction() bool {
	return e == Production
}
