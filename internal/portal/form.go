package portal

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// The login page is a Rails-style HTML form. A full HTML parser is overkill
// for lifting one meta tag and a handful of hidden inputs.
var (
	csrfMetaRe   = regexp.MustCompile(`(?i)<meta\s+name="csrf-token"\s+content="([^"]+)"`)
	formRe       = regexp.MustCompile(`(?is)<form\b([^>]*)>(.*?)</form>`)
	inputRe      = regexp.MustCompile(`(?i)<input\b[^>]*>`)
	nameAttrRe   = regexp.MustCompile(`(?i)\bname\s*=\s*"([^"]*)"`)
	valueAttrRe  = regexp.MustCompile(`(?i)\bvalue\s*=\s*"([^"]*)"`)
	typeAttrRe   = regexp.MustCompile(`(?i)\btype\s*=\s*"([^"]*)"`)
	methodAttrRe = regexp.MustCompile(`(?i)\bmethod\s*=\s*"([^"]*)"`)
	actionAttrRe = regexp.MustCompile(`(?i)\baction\s*=\s*"([^"]*)"`)
)

const defaultSignInAction = "/users/sign_in"

type loginForm struct {
	action string
	fields url.Values
}

func extractCSRFToken(html string) string {
	if m := csrfMetaRe.FindStringSubmatch(html); m != nil {
		return m[1]
	}
	return ""
}

// parseLoginForm picks the POST form that carries an email/login field,
// falling back to the first POST form on the page.
func parseLoginForm(html string) (loginForm, error) {
	var fallback *loginForm
	for _, m := range formRe.FindAllStringSubmatch(html, -1) {
		attrs, body := m[1], m[2]
		if !strings.EqualFold(firstMatch(methodAttrRe, attrs), "post") {
			continue
		}

		fields := url.Values{}
		for _, tag := range inputRe.FindAllString(body, -1) {
			name := firstMatch(nameAttrRe, tag)
			if name == "" {
				continue
			}
			typ := strings.ToLower(firstMatch(typeAttrRe, tag))
			if typ == "submit" || typ == "button" {
				continue
			}
			fields.Set(name, firstMatch(valueAttrRe, tag))
		}

		action := firstMatch(actionAttrRe, attrs)
		if action == "" {
			action = defaultSignInAction
		}
		form := loginForm{action: action, fields: fields}
		if fallback == nil {
			f := form
			fallback = &f
		}
		for name := range fields {
			lower := strings.ToLower(name)
			if strings.Contains(lower, "email") || strings.Contains(lower, "login") {
				return form, nil
			}
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return loginForm{}, fmt.Errorf("no POST form found on login page")
}

// buildLoginPayload fills the discovered form fields with the credentials,
// keeping any hidden values (authenticity token etc.) intact.
func buildLoginPayload(fields url.Values, email, password string) url.Values {
	payload := url.Values{}
	for k, vs := range fields {
		for _, v := range vs {
			payload.Add(k, v)
		}
	}

	emailField := matchField(payload, []string{"email", "login"}, "user[email]")
	passwordField := matchField(payload, []string{"password"}, "user[password]")
	payload.Set(emailField, email)
	payload.Set(passwordField, password)

	for name := range payload {
		if strings.Contains(strings.ToLower(name), "remember") && payload.Get(name) == "" {
			payload.Set(name, "1")
		}
	}
	return payload
}

func matchField(payload url.Values, matches []string, fallback string) string {
	for name := range payload {
		lower := strings.ToLower(name)
		for _, m := range matches {
			if strings.Contains(lower, m) {
				return name
			}
		}
	}
	payload.Set(fallback, "")
	return fallback
}

func firstMatch(re *regexp.Regexp, s string) string {
	if m := re.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return ""
}
