package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
)

// Supported credential types.
const (
	TypeEarlyAdopter    = "EarlyAdopter"
	TypeEventAttendance = "EventAttendance"
)

// Argument names used by the supported credential types.
const (
	ArgSinceYear = "sinceYear"
	ArgEventName = "eventName"
)

type argumentKind uint8

const (
	kindNone argumentKind = iota
	kindInt
	kindString
)

// ArgumentValue is a tagged union of Int(int32) and String(string).
// On the wire it is {"Int": 2024} or {"String": "DICE2024"}.
type ArgumentValue struct {
	kind argumentKind
	i    int32
	s    string
}

func IntArg(v int32) ArgumentValue     { return ArgumentValue{kind: kindInt, i: v} }
func StringArg(v string) ArgumentValue { return ArgumentValue{kind: kindString, s: v} }

// Int returns the integer value and whether the argument holds one.
func (a ArgumentValue) Int() (int32, bool) { return a.i, a.kind == kindInt }

// Str returns the string value and whether the argument holds one.
func (a ArgumentValue) Str() (string, bool) { return a.s, a.kind == kindString }

// Any returns the underlying value for claim rendering.
func (a ArgumentValue) Any() any {
	switch a.kind {
	case kindInt:
		return a.i
	case kindString:
		return a.s
	default:
		return nil
	}
}

func (a ArgumentValue) String() string {
	switch a.kind {
	case kindInt:
		return fmt.Sprintf("%d", a.i)
	case kindString:
		return a.s
	default:
		return ""
	}
}

func (a ArgumentValue) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case kindInt:
		return json.Marshal(map[string]int32{"Int": a.i})
	case kindString:
		return json.Marshal(map[string]string{"String": a.s})
	default:
		return nil, fmt.Errorf("argument value is empty")
	}
}

func (a *ArgumentValue) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("argument value must be an object: %w", err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("argument value must have exactly one of Int or String")
	}
	if v, ok := raw["Int"]; ok {
		var i int32
		if err := json.Unmarshal(v, &i); err != nil {
			return fmt.Errorf("decode Int argument: %w", err)
		}
		*a = IntArg(i)
		return nil
	}
	if v, ok := raw["String"]; ok {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return fmt.Errorf("decode String argument: %w", err)
		}
		*a = StringArg(s)
		return nil
	}
	return fmt.Errorf("argument value must have exactly one of Int or String")
}

// CredentialSpec names a credential type and its arguments.
type CredentialSpec struct {
	CredentialType string                   `json:"credential_type" validate:"required"`
	Arguments      map[string]ArgumentValue `json:"arguments,omitempty"`
}

// Equal reports whether both specs request the same credential.
func (s CredentialSpec) Equal(other CredentialSpec) bool {
	return s.CredentialType == other.CredentialType && maps.Equal(s.Arguments, other.Arguments)
}

// CanonicalJSON is the stable encoding used for hashing and storage.
// encoding/json sorts map keys, so equal specs encode identically.
func (s CredentialSpec) CanonicalJSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Claims are the attributes asserted by an issued credential.
type Claims struct {
	CredentialType string
	Values         map[string]ArgumentValue
}

// Subject renders the claim values as the credentialSubject entry.
func (c Claims) Subject() map[string]any {
	out := make(map[string]any, len(c.Values))
	for k, v := range c.Values {
		out[k] = v.Any()
	}
	return out
}

// ConsentPreferences carries the caller's language preference (BCP 47).
type ConsentPreferences struct {
	Language string `json:"language"`
}

// ConsentInfo is a human-readable consent message.
type ConsentInfo struct {
	ConsentMessage string `json:"consent_message"`
	Language       string `json:"language"`
}

// ConsentMessageRequest is the body of POST /vc-consent-message.
type ConsentMessageRequest struct {
	CredentialSpec CredentialSpec     `json:"credential_spec"`
	Preferences    ConsentPreferences `json:"preferences"`
}

func (r *ConsentMessageRequest) Normalize() {
	if r.Preferences.Language == "" {
		r.Preferences.Language = "en"
	}
}
