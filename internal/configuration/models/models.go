package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/go-jose/go-jose/v4"

	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	strutil "vcissuer/pkg/platform/strings"
	"vcissuer/pkg/platform/validation"
)

// IssuerConfiguration is the runtime configuration every issuance call reads
// a snapshot of. It is replaced as a whole; fields are never mutated in place.
type IssuerConfiguration struct {
	Version           uint64             `json:"version"`
	DerivationOrigin  string             `json:"derivation_origin"`
	FrontendHostnames []string           `json:"frontend_hostnames"`
	AuthorityIDs      []string           `json:"authority_ids"`
	RootKeys          jose.JSONWebKeySet `json:"root_keys"`
	Controllers       []string           `json:"controllers"`
}

// Validate checks that the configuration is usable.
func (c *IssuerConfiguration) Validate() error {
	if c.DerivationOrigin == "" {
		return dErrors.New(dErrors.CodeValidation, "derivation origin is required")
	}
	if _, err := url.ParseRequestURI(c.DerivationOrigin); err != nil {
		return dErrors.New(dErrors.CodeValidation, "derivation origin must be a URL")
	}
	if len(c.FrontendHostnames) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one frontend hostname is required")
	}
	for _, k := range c.RootKeys.Keys {
		if k.KeyID == "" {
			return dErrors.New(dErrors.CodeValidation, "root keys must carry a key id")
		}
		if !k.IsPublic() {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("root key %s must be a public key", k.KeyID))
		}
	}
	return nil
}

// IsController reports whether p may administer the issuer.
func (c *IssuerConfiguration) IsController(p domain.Principal) bool {
	return domain.NewPrincipalSet(c.Controllers...).Contains(p)
}

// IsAuthority reports whether iss is a trusted id-alias authority.
func (c *IssuerConfiguration) IsAuthority(iss string) bool {
	return iss != "" && slices.Contains(c.AuthorityIDs, iss)
}

// AllowsFrontend reports whether hostname is one of the registered frontends.
func (c *IssuerConfiguration) AllowsFrontend(hostname string) bool {
	return slices.Contains(c.FrontendHostnames, hostname)
}

// Clone returns a deep copy safe to hand to a writer.
func (c *IssuerConfiguration) Clone() *IssuerConfiguration {
	if c == nil {
		return nil
	}
	out := *c
	out.FrontendHostnames = slices.Clone(c.FrontendHostnames)
	out.AuthorityIDs = slices.Clone(c.AuthorityIDs)
	out.Controllers = slices.Clone(c.Controllers)
	out.RootKeys.Keys = slices.Clone(c.RootKeys.Keys)
	return &out
}

// ConfigureRequest is the body of POST /configure.
type ConfigureRequest struct {
	DerivationOrigin  string          `json:"derivation_origin" validate:"required,url"`
	FrontendHostnames []string        `json:"frontend_hostnames" validate:"required,min=1,dive,required"`
	AuthorityIDs      []string        `json:"authority_ids" validate:"dive,required"`
	RootKeys          json.RawMessage `json:"root_keys"`
	Controllers       []string        `json:"controllers" validate:"dive,required"`
}

// Normalize trims every field and drops blank or repeated list entries.
// Hostnames compare case-insensitively.
func (r *ConfigureRequest) Normalize() {
	r.DerivationOrigin = strings.TrimSpace(r.DerivationOrigin)
	r.FrontendHostnames = strutil.DedupeAndTrimLower(r.FrontendHostnames)
	r.AuthorityIDs = strutil.DedupeAndTrim(r.AuthorityIDs)
	r.Controllers = strutil.DedupeAndTrim(r.Controllers)
}

func (r *ConfigureRequest) Validate() error {
	if err := validation.CheckStringLength("derivation origin", r.DerivationOrigin, validation.MaxOriginLength); err != nil {
		return err
	}
	if err := validation.CheckSliceCount("frontend hostnames", len(r.FrontendHostnames), validation.MaxFrontendHostnames); err != nil {
		return err
	}
	if err := validation.CheckEachStringLength("frontend hostname", r.FrontendHostnames, validation.MaxHostnameLength); err != nil {
		return err
	}
	if err := validation.CheckSliceCount("authority ids", len(r.AuthorityIDs), validation.MaxAuthorityIDs); err != nil {
		return err
	}
	if err := validation.CheckEachStringLength("authority id", r.AuthorityIDs, validation.MaxOriginLength); err != nil {
		return err
	}
	if err := validation.CheckSliceCount("controllers", len(r.Controllers), validation.MaxControllers); err != nil {
		return err
	}
	return validation.CheckEachStringLength("controller", r.Controllers, domain.MaxPrincipalLength)
}

// ToConfiguration parses the embedded JWKS and builds a configuration value.
func (r *ConfigureRequest) ToConfiguration() (*IssuerConfiguration, error) {
	cfg := &IssuerConfiguration{
		DerivationOrigin:  r.DerivationOrigin,
		FrontendHostnames: r.FrontendHostnames,
		AuthorityIDs:      r.AuthorityIDs,
		Controllers:       r.Controllers,
	}
	if len(r.RootKeys) > 0 && string(r.RootKeys) != "null" {
		if err := json.Unmarshal(r.RootKeys, &cfg.RootKeys); err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "root_keys must be a JSON Web Key Set")
		}
		if err := validation.CheckSliceCount("root keys", len(cfg.RootKeys.Keys), validation.MaxRootKeys); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

type ConfigureResponse struct {
	Version uint64 `json:"version"`
}

// DerivationOriginRequest is the body of POST /derivation-origin.
type DerivationOriginRequest struct {
	FrontendHostname string `json:"frontend_hostname" validate:"required"`
}

type DerivationOriginResponse struct {
	Origin string `json:"origin"`
}
