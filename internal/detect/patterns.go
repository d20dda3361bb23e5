package detect

import (
	"time"

	"github.com/dlclark/regexp2"
)

// secretKeyPatterns are substrings of a lower-cased identifier that mark its
// value as a credential.
var secretKeyPatterns = []string{
	// generic
	"secret", "secrets", "token", "tokens",
	"apikey", "api_key", "api-key", "api key",
	"password", "passwd", "pass", "pwd",
	"credential", "credentials", "creds",

	// auth and sessions
	"auth", "authorization", "bearer",
	"session", "sessionid", "session_id", "sid",
	"cookie", "cookies", "set-cookie",
	"refresh", "refresh_token", "access", "access_token", "id_token",
	"csrf", "csrf_token", "xsrf", "xsrf_token",
	"otp", "mfa", "totp",

	// jwt and signatures
	"jwt", "jwtsecret", "jwt_secret",
	"signing", "signingkey", "signing_key", "signature", "sig",

	// keys and crypto
	"private", "privatekey", "private_key", "publickey", "public_key",
	"pem", "keystore", "key_store", "certificate", "cert", "crt",
	"ssh", "rsa", "ed25519", "encryption", "encrypt", "decrypt",

	// oauth
	"clientsecret", "client_secret", "clientid", "client_id",

	// api auth headers
	"x-api-key", "x_api_key", "api_token", "api-token", "appkey", "app_key",

	// database credentials, prone to false positives
	"dbpassword", "db_password", "dbuser", "db_user", "dbusername", "db_username",
}

// sensitiveHeaders are HTTP header names, lower-cased, whose values are credentials
var sensitiveHeaders = map[string]bool{
	"authorization": true,
	"x-api-key":     true,
	"cookie":        true,
	"set-cookie":    true,
}

// configKeyPatterns are substrings of a lower-cased identifier that mark its
// value as deployment configuration.
var configKeyPatterns = []string{
	"url", "baseurl", "apiurl", "endpoint", "host",
	"mongouri", "databaseurl", "redisurl", "uri",
	"href", "origin", "domain",
}

// patternTimeout caps a single value-pattern match; a timeout counts as no match.
const patternTimeout = 50 * time.Millisecond

// valuePattern is a value shape, checked in table order
type valuePattern struct {
	Name     string
	Category Category
	re       *regexp2.Regexp
}

func (p valuePattern) match(value string) bool {
	ok, err := p.re.MatchString(value)
	return err == nil && ok
}

func mustPattern(name string, category Category, expr string) valuePattern {
	re := regexp2.MustCompile(expr, regexp2.ECMAScript)
	re.MatchTimeout = patternTimeout
	return valuePattern{Name: name, Category: category, re: re}
}

// valuePatterns is ordered by priority. The URL shape excludes localhost only
// as an exact host, so http://localhost:3000 is skipped but
// https://localhost-mirror.com is not.
var valuePatterns = []valuePattern{
	mustPattern("AWS Access Key", CategorySecret, `AKIA[0-9A-Z]{16}`),
	mustPattern("Private Key Header", CategorySecret, `-----BEGIN .* PRIVATE KEY-----`),
	mustPattern("Bearer Token", CategorySecret, `^Bearer\s+[A-Za-z0-9\-._~+/]+=*$`),
	mustPattern("SK- prefixed key", CategorySecret, `^sk-[A-Za-z0-9]{20,}$`),
	mustPattern("JWT-like token", CategorySecret, `^[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}\.[A-Za-z0-9_-]{10,}$`),
	mustPattern("Hardcoded URL", CategoryConfig, `^https?://(?!localhost(?:[:/?#]|$))\S+$`),
}
