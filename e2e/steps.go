//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/go-jose/go-jose/v4"

	"vcissuer/internal/idalias"
	"vcissuer/pkg/domain"
)

// RegisterSteps registers all step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background
	ctx.Step(`^the issuer is running$`, tc.issuerIsRunning)
	ctx.Step(`^the issuer trusts a test id-alias authority$`, tc.issuerTrustsTestAuthority)

	// Callers
	ctx.Step(`^I am the subject "([^"]*)"$`, tc.iAmTheSubject)
	ctx.Step(`^I am anonymous$`, tc.iAmAnonymous)
	ctx.Step(`^I hold an id alias$`, tc.iHoldAnIdAlias)
	ctx.Step(`^I hold an id alias minted for "([^"]*)"$`, tc.iHoldAnIdAliasFor)

	// Eligibility and events
	ctx.Step(`^the controller adds event "([^"]*)"$`, tc.controllerAddsEvent)
	ctx.Step(`^I add event "([^"]*)"$`, tc.iAddEvent)
	ctx.Step(`^I register as an early adopter$`, tc.iRegister)
	ctx.Step(`^I register for event "([^"]*)" with its registration code$`, tc.iRegisterForEvent)
	ctx.Step(`^I register for event "([^"]*)" with registration code "([^"]*)"$`, tc.iRegisterForEventWithCode)
	ctx.Step(`^the controller lists events$`, tc.controllerListsEvents)
	ctx.Step(`^the event list should contain "([^"]*)"$`, tc.eventListShouldContain)

	// Issuance
	ctx.Step(`^I request the consent message for an early adopter credential in "([^"]*)"$`, tc.iRequestConsentMessage)
	ctx.Step(`^I prepare an early adopter credential$`, tc.iPrepareEarlyAdopter)
	ctx.Step(`^I prepare an early adopter credential since (\d+)$`, tc.iPrepareEarlyAdopterSince)
	ctx.Step(`^I prepare an event attendance credential for "([^"]*)"$`, tc.iPrepareEventAttendance)
	ctx.Step(`^I get the credential$`, tc.iGetTheCredential)
	ctx.Step(`^I get the credential with a tampered prepared context$`, tc.iGetWithTamperedContext)
	ctx.Step(`^the credential should be issued to my alias$`, tc.credentialIssuedToMyAlias)
	ctx.Step(`^the credential subject should have "([^"]*)" equal to "([^"]*)"$`, tc.credentialSubjectShouldHave)

	// Assertions
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the error should be "([^"]*)"$`, tc.errorShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.responseShouldContain)
}

func (tc *TestContext) issuerIsRunning(context.Context) error {
	if err := tc.GET("/health/live", ""); err != nil {
		return err
	}
	return tc.expectStatus(http.StatusOK)
}

func (tc *TestContext) issuerTrustsTestAuthority(context.Context) error {
	authority, err := idalias.NewAuthority(authorityID)
	if err != nil {
		return err
	}
	tc.Authority = authority
	keys, err := json.Marshal(authority.KeySet())
	if err != nil {
		return err
	}
	body := map[string]any{
		"derivation_origin":  "https://e2e.vcissuer.local",
		"frontend_hostnames": []string{"https://e2e.vcissuer.local"},
		"authority_ids":      []string{authorityID},
		"root_keys":          json.RawMessage(keys),
		"controllers":        []string{tc.Controller.String()},
	}
	if err := tc.POST("/configure", body, tc.Controller); err != nil {
		return err
	}
	return tc.expectStatus(http.StatusOK)
}

func (tc *TestContext) iAmTheSubject(_ context.Context, name string) error {
	tc.Subject = domain.Principal(tc.unique(name))
	return nil
}

func (tc *TestContext) iAmAnonymous(context.Context) error {
	tc.Subject = ""
	return nil
}

func (tc *TestContext) iHoldAnIdAlias(ctx context.Context) error {
	return tc.mintAlias(tc.Subject)
}

func (tc *TestContext) iHoldAnIdAliasFor(_ context.Context, name string) error {
	return tc.mintAlias(domain.Principal(tc.unique(name)))
}

func (tc *TestContext) mintAlias(subject domain.Principal) error {
	if tc.Authority == nil {
		return fmt.Errorf("no test authority configured")
	}
	tc.Alias = domain.Principal(tc.unique("alias"))
	signed, err := tc.Authority.Mint(subject, tc.Alias, time.Now(), 10*time.Minute)
	if err != nil {
		return err
	}
	tc.Signed = signed
	return nil
}

func (tc *TestContext) controllerAddsEvent(_ context.Context, name string) error {
	return tc.addEvent(name, tc.Controller)
}

func (tc *TestContext) iAddEvent(_ context.Context, name string) error {
	return tc.addEvent(name, tc.Subject)
}

func (tc *TestContext) addEvent(name string, as domain.Principal) error {
	if err := tc.POST("/events", map[string]any{"event_name": tc.unique(name)}, as); err != nil {
		return err
	}
	if tc.LastResponse.StatusCode != http.StatusOK {
		return nil
	}
	var view eventView
	if err := tc.decode(&view); err != nil {
		return err
	}
	tc.Events[name] = view.RegistrationCode
	return nil
}

func (tc *TestContext) iRegister(context.Context) error {
	return tc.register(nil)
}

func (tc *TestContext) iRegisterForEvent(_ context.Context, name string) error {
	code, ok := tc.Events[name]
	if !ok {
		return fmt.Errorf("event %q was not added in this scenario", name)
	}
	return tc.register(map[string]any{"event_name": tc.unique(name), "registration_code": code})
}

func (tc *TestContext) iRegisterForEventWithCode(_ context.Context, name, code string) error {
	return tc.register(map[string]any{"event_name": tc.unique(name), "registration_code": code})
}

func (tc *TestContext) register(event map[string]any) error {
	body := map[string]any{}
	if event != nil {
		body["event_data"] = event
	}
	if err := tc.POST("/register", body, tc.Subject); err != nil {
		return err
	}
	if tc.LastResponse.StatusCode != http.StatusOK {
		return nil
	}
	var view struct {
		JoinedTimestampS int64 `json:"joined_timestamp_s"`
	}
	if err := tc.decode(&view); err != nil {
		return err
	}
	tc.JoinedYear = time.Unix(view.JoinedTimestampS, 0).UTC().Year()
	return nil
}

func (tc *TestContext) controllerListsEvents(context.Context) error {
	return tc.GET("/events", tc.Controller)
}

type eventView struct {
	EventName        string `json:"event_name"`
	RegistrationCode string `json:"registration_code"`
}

func (tc *TestContext) eventListShouldContain(_ context.Context, name string) error {
	var list struct {
		Events []eventView `json:"events"`
	}
	if err := tc.decode(&list); err != nil {
		return err
	}
	want := tc.unique(name)
	if !slices.ContainsFunc(list.Events, func(e eventView) bool { return e.EventName == want }) {
		return fmt.Errorf("event %s not listed\nResponse: %s", want, tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) iRequestConsentMessage(_ context.Context, language string) error {
	body := map[string]any{
		"credential_spec": earlyAdopterSpec(int32(time.Now().UTC().Year())),
		"preferences":     map[string]any{"language": language},
	}
	return tc.POST("/vc-consent-message", body, tc.Subject)
}

func earlyAdopterSpec(year int32) map[string]any {
	return map[string]any{
		"credential_type": "EarlyAdopter",
		"arguments":       map[string]any{"sinceYear": map[string]any{"Int": year}},
	}
}

func (tc *TestContext) iPrepareEarlyAdopter(ctx context.Context) error {
	return tc.prepare(earlyAdopterSpec(int32(tc.JoinedYear)))
}

func (tc *TestContext) iPrepareEarlyAdopterSince(_ context.Context, year int) error {
	return tc.prepare(earlyAdopterSpec(int32(year)))
}

func (tc *TestContext) iPrepareEventAttendance(_ context.Context, name string) error {
	return tc.prepare(map[string]any{
		"credential_type": "EventAttendance",
		"arguments":       map[string]any{"eventName": map[string]any{"String": tc.unique(name)}},
	})
}

func (tc *TestContext) prepare(spec map[string]any) error {
	tc.Spec = spec
	body := map[string]any{"credential_spec": spec, "signed_id_alias": tc.Signed}
	if err := tc.POST("/credentials/prepare", body, tc.Subject); err != nil {
		return err
	}
	if tc.LastResponse.StatusCode != http.StatusOK {
		return nil
	}
	var resp struct {
		PreparedContext []byte `json:"prepared_context"`
	}
	if err := tc.decode(&resp); err != nil {
		return err
	}
	tc.PreparedContext = resp.PreparedContext
	return nil
}

// iGetTheCredential retries while the signature is still being certified.
func (tc *TestContext) iGetTheCredential(context.Context) error {
	deadline := time.Now().Add(10 * time.Second)
	for {
		if err := tc.get(tc.PreparedContext); err != nil {
			return err
		}
		if !strings.Contains(string(tc.LastResponseBody), `"signature_not_found"`) || time.Now().After(deadline) {
			break
		}
		time.Sleep(250 * time.Millisecond)
	}
	if tc.LastResponse.StatusCode != http.StatusOK {
		return nil
	}
	var resp struct {
		VcJws string `json:"vc_jws"`
	}
	if err := tc.decode(&resp); err != nil {
		return err
	}
	tc.VcJws = resp.VcJws
	return nil
}

func (tc *TestContext) iGetWithTamperedContext(context.Context) error {
	tampered := append([]byte(nil), tc.PreparedContext...)
	if len(tampered) == 0 {
		return fmt.Errorf("no prepared context")
	}
	tampered[len(tampered)-1] ^= 0xff
	return tc.get(tampered)
}

func (tc *TestContext) get(preparedContext []byte) error {
	body := map[string]any{
		"credential_spec":  tc.Spec,
		"signed_id_alias":  tc.Signed,
		"prepared_context": preparedContext,
	}
	return tc.POST("/credentials/get", body, tc.Subject)
}

func (tc *TestContext) credentialPayload() (map[string]any, error) {
	if tc.VcJws == "" {
		return nil, fmt.Errorf("no credential issued\nResponse: %s", tc.LastResponseBody)
	}
	jws, err := jose.ParseSigned(tc.VcJws, []jose.SignatureAlgorithm{jose.EdDSA})
	if err != nil {
		return nil, fmt.Errorf("parse credential: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(jws.UnsafePayloadWithoutVerification(), &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (tc *TestContext) credentialIssuedToMyAlias(context.Context) error {
	payload, err := tc.credentialPayload()
	if err != nil {
		return err
	}
	if payload["sub"] != tc.Alias.String() {
		return fmt.Errorf("credential subject %v, want alias %s", payload["sub"], tc.Alias)
	}
	return nil
}

func (tc *TestContext) credentialSubjectShouldHave(_ context.Context, field, want string) error {
	payload, err := tc.credentialPayload()
	if err != nil {
		return err
	}
	vc, _ := payload["vc"].(map[string]any)
	subjects, _ := vc["credentialSubject"].(map[string]any)
	for _, attrs := range subjects {
		m, ok := attrs.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := m[field]; ok {
			got := fmt.Sprint(v)
			if strings.HasPrefix(want, "$") {
				want = tc.unique(strings.TrimPrefix(want, "$"))
			}
			if got != want {
				return fmt.Errorf("%s = %s, want %s", field, got, want)
			}
			return nil
		}
	}
	return fmt.Errorf("credential subject has no %s\nPayload: %v", field, payload)
}

func (tc *TestContext) responseStatusShouldBe(_ context.Context, status int) error {
	return tc.expectStatus(status)
}

func (tc *TestContext) errorShouldBe(_ context.Context, code string) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := tc.decode(&body); err != nil {
		return err
	}
	if body.Error != code {
		return fmt.Errorf("expected error %s but got %s\nResponse: %s", code, body.Error, tc.LastResponseBody)
	}
	return nil
}

func (tc *TestContext) responseShouldContain(_ context.Context, text string) error {
	if !strings.Contains(string(tc.LastResponseBody), text) {
		return fmt.Errorf("response does not contain %q\nResponse: %s", text, tc.LastResponseBody)
	}
	return nil
}
