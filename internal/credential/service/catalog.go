// Package service implements the credential catalog: the supported credential
// types, their consent messages and the claims each one asserts.
package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"vcissuer/internal/credential/models"
	eligibility "vcissuer/internal/eligibility/models"
	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
)

type argumentKind int

const (
	intArgument argumentKind = iota
	stringArgument
)

// variant describes one supported credential type.
type variant struct {
	argument string
	kind     argumentKind
	// consent holds the message template per language; %s is the argument.
	consent map[language.Tag]string
	// claims decides whether subject is entitled to arg. record is nil for
	// unregistered subjects.
	claims func(arg models.ArgumentValue, subject domain.Principal, record *eligibility.Record) error
}

var supportedLanguages = []language.Tag{language.English, language.German}

var languageMatcher = language.NewMatcher(supportedLanguages)

var variants = map[string]variant{
	models.TypeEarlyAdopter: {
		argument: models.ArgSinceYear,
		kind:     intArgument,
		consent: map[language.Tag]string{
			language.English: "# Early Adopter Credential\n\nYou became an early adopter in %s.",
			language.German:  "# Early-Adopter-Nachweis\n\nSie sind seit %s ein Early Adopter.",
		},
		claims: func(arg models.ArgumentValue, subject domain.Principal, record *eligibility.Record) error {
			if record == nil {
				return dErrors.New(dErrors.CodeUnknownSubject, fmt.Sprintf("unregistered principal %s", subject))
			}
			year, _ := arg.Int()
			if joined := record.JoinedAt.UTC().Year(); int(year) < joined {
				return dErrors.New(dErrors.CodeUnauthorizedSubject,
					fmt.Sprintf("unauthorized principal %s: joined in %d, not in %d", subject, joined, year))
			}
			return nil
		},
	},
	models.TypeEventAttendance: {
		argument: models.ArgEventName,
		kind:     stringArgument,
		consent: map[language.Tag]string{
			language.English: "# Event Attendance Credential\n\nYou have attended the event %s.",
			language.German:  "# Nachweis der Veranstaltungsteilnahme\n\nSie haben an der Veranstaltung %s teilgenommen.",
		},
		claims: func(arg models.ArgumentValue, subject domain.Principal, record *eligibility.Record) error {
			name, _ := arg.Str()
			if record == nil {
				return dErrors.New(dErrors.CodeUnauthorizedSubject, fmt.Sprintf("unregistered principal %s", subject))
			}
			if !record.Attended(name) {
				return dErrors.New(dErrors.CodeUnauthorizedSubject,
					fmt.Sprintf("unauthorized principal %s: no attendance of event %s", subject, name))
			}
			return nil
		},
	},
}

// Catalog answers consent and claims questions for the supported credential
// types. It is stateless.
type Catalog struct{}

func New() *Catalog {
	return &Catalog{}
}

// ConsentMessage renders the consent message for spec in the preferred
// language, falling back to English.
func (c *Catalog) ConsentMessage(_ context.Context, spec models.CredentialSpec, prefs models.ConsentPreferences) (*models.ConsentInfo, error) {
	v, ok := variants[spec.CredentialType]
	if !ok {
		return nil, dErrors.New(dErrors.CodeConsentMessageUnavailable,
			fmt.Sprintf("credential type %s is not supported", spec.CredentialType))
	}
	arg, err := v.argumentOf(spec)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeConsentMessageUnavailable, err.Error())
	}

	tag := matchLanguage(prefs.Language)
	return &models.ConsentInfo{
		ConsentMessage: fmt.Sprintf(v.consent[tag], arg.String()),
		Language:       tag.String(),
	}, nil
}

// DeriveClaims computes the claims subject may receive for spec. record is nil
// when subject never registered. EarlyAdopter then fails with unknown_subject;
// otherwise a record that does not entitle the credential fails with
// unauthorized_subject. An EarlyAdopter sinceYear before the join year is not
// entitled.
func (c *Catalog) DeriveClaims(spec models.CredentialSpec, subject domain.Principal, record *eligibility.Record) (*models.Claims, error) {
	v, ok := variants[spec.CredentialType]
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnsupportedCredentialSpec,
			fmt.Sprintf("credential type %s is not supported", spec.CredentialType))
	}
	arg, err := v.argumentOf(spec)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnsupportedCredentialSpec, err.Error())
	}
	if err := v.claims(arg, subject, record); err != nil {
		return nil, err
	}
	return &models.Claims{
		CredentialType: spec.CredentialType,
		Values:         map[string]models.ArgumentValue{v.argument: arg},
	}, nil
}

// ValidateClaimsMatchSpec checks that claims assert exactly what spec asks for.
func (c *Catalog) ValidateClaimsMatchSpec(claims *models.Claims, spec models.CredentialSpec) error {
	v, ok := variants[spec.CredentialType]
	if !ok || claims == nil || claims.CredentialType != spec.CredentialType {
		return dErrors.New(dErrors.CodeUnsupportedCredentialSpec, "credential spec does not match claims")
	}
	want, err := v.argumentOf(spec)
	if err != nil {
		return dErrors.New(dErrors.CodeUnsupportedCredentialSpec, err.Error())
	}
	if got, ok := claims.Values[v.argument]; !ok || got != want {
		return dErrors.New(dErrors.CodeUnsupportedCredentialSpec,
			fmt.Sprintf("claim %s does not match credential spec", v.argument))
	}
	return nil
}

// argumentOf returns the single required argument, rejecting missing,
// mistyped and unexpected arguments.
func (v variant) argumentOf(spec models.CredentialSpec) (models.ArgumentValue, error) {
	if spec.Arguments == nil {
		return models.ArgumentValue{}, fmt.Errorf("credential %s requires arguments", spec.CredentialType)
	}
	arg, ok := spec.Arguments[v.argument]
	if !ok {
		return models.ArgumentValue{}, fmt.Errorf("credential %s requires argument %s", spec.CredentialType, v.argument)
	}
	if len(spec.Arguments) != 1 {
		return models.ArgumentValue{}, fmt.Errorf("credential %s accepts only argument %s", spec.CredentialType, v.argument)
	}
	switch v.kind {
	case intArgument:
		if _, ok := arg.Int(); !ok {
			return models.ArgumentValue{}, fmt.Errorf("argument %s must be an Int", v.argument)
		}
	case stringArgument:
		s, ok := arg.Str()
		if !ok {
			return models.ArgumentValue{}, fmt.Errorf("argument %s must be a String", v.argument)
		}
		if strings.TrimSpace(s) == "" {
			return models.ArgumentValue{}, fmt.Errorf("argument %s cannot be empty", v.argument)
		}
	}
	return arg, nil
}

func matchLanguage(pref string) language.Tag {
	tag, err := language.Parse(pref)
	if err != nil {
		return language.English
	}
	_, idx, confidence := languageMatcher.Match(tag)
	if confidence == language.No {
		return language.English
	}
	return supportedLanguages[idx]
}
