package service

import (
	"encoding/json"
	"errors"
	"feednana/config"
	"net/http"
	"net/url"
	"time"
)

var recaptchaVerifyURL = "https://www.google.com/recaptcha/api/siteverify"

var recaptchaHTTPClient = &http.Client{Timeout: 10 * time.Second}

type recaptchaResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// VerifyRecaptcha checks a client token against the verification API.
// Verification is skipped when no secret is configured.
func VerifyRecaptcha(token, remoteIP string) error {
	secret := config.AppConfig.RecaptchaSecret
	if secret == "" {
		return nil
	}
	if token == "" {
		return errors.New("captcha token missing")
	}
	form := url.Values{}
	form.Set("secret", secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}
	resp, err := recaptchaHTTPClient.PostForm(recaptchaVerifyURL, form)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	var result recaptchaResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}
	if !result.Success {
		return errors.New("captcha verification failed")
	}
	return nil
}
