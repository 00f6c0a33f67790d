package providers

import (
	"dirpurge/internal/structures"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// Validate checks the struct tags of the whole config tree and the rules
// that span several fields.
func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return v.Errors
	}
	if c.conf.Metrics.Enabled && c.conf.Metrics.TextfilePath == "" {
		return validate.Errors{"metrics.textfilePath": {"required": "metrics.textfilePath is required when metrics are enabled"}}
	}
	if c.conf.Ledger.Driver == "sqlite" && c.conf.Ledger.Compression != "none" {
		return validate.Errors{"ledger.compression": {"in": "ledger.compression must be none for the sqlite driver"}}
	}
	return nil
}
