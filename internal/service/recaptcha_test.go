package service

import (
	"feednana/config"
	"net/http"
	"net/http/httptest"
	"testing"
)

func withRecaptchaServer(t *testing.T, body string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if r.Form.Get("secret") == "" || r.Form.Get("response") == "" {
			t.Error("verification call missing secret or response")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	oldURL := recaptchaVerifyURL
	recaptchaVerifyURL = server.URL
	t.Cleanup(func() {
		recaptchaVerifyURL = oldURL
		server.Close()
	})
}

func TestVerifyRecaptchaSuccess(t *testing.T) {
	config.AppConfig.RecaptchaSecret = "test-secret"
	defer func() { config.AppConfig.RecaptchaSecret = "" }()
	withRecaptchaServer(t, `{"success": true}`)

	if err := VerifyRecaptcha("client-token", "1.2.3.4"); err != nil {
		t.Fatalf("VerifyRecaptcha: %v", err)
	}
}

func TestVerifyRecaptchaRejected(t *testing.T) {
	config.AppConfig.RecaptchaSecret = "test-secret"
	defer func() { config.AppConfig.RecaptchaSecret = "" }()
	withRecaptchaServer(t, `{"success": false, "error-codes": ["invalid-input-response"]}`)

	if err := VerifyRecaptcha("client-token", ""); err == nil {
		t.Fatal("expected verification failure")
	}
}

func TestVerifyRecaptchaMissingToken(t *testing.T) {
	config.AppConfig.RecaptchaSecret = "test-secret"
	defer func() { config.AppConfig.RecaptchaSecret = "" }()

	if err := VerifyRecaptcha("", ""); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestVerifyRecaptchaDisabled(t *testing.T) {
	config.AppConfig.RecaptchaSecret = ""
	if err := VerifyRecaptcha("", ""); err != nil {
		t.Fatalf("disabled captcha must pass, got %v", err)
	}
}
