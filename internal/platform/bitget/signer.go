package bitget

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"time"
)

// signer produces Bitget v2 authentication headers. The signature is
// HMAC-SHA256 over timestamp + METHOD + requestPath(+query) + body,
// base64 encoded.
type signer struct {
	apiKey     string
	secretKey  string
	passphrase string
}

func (s signer) configured() bool {
	return s.apiKey != "" && s.secretKey != "" && s.passphrase != ""
}

// sign adds the authentication headers to req. pathWithQuery must be the
// exact request path including any encoded query string; body is the raw
// JSON payload or nil.
func (s signer) sign(req *http.Request, method, pathWithQuery string, body []byte) {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)

	target := ts + method + pathWithQuery
	if len(body) > 0 {
		target += string(body)
	}

	mac := hmac.New(sha256.New, []byte(s.secretKey))
	mac.Write([]byte(target))
	sig := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	req.Header.Set("ACCESS-KEY", s.apiKey)
	req.Header.Set("ACCESS-SIGN", sig)
	req.Header.Set("ACCESS-TIMESTAMP", ts)
	req.Header.Set("ACCESS-PASSPHRASE", s.passphrase)
}
