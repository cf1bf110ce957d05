package openid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	steamLoginEndpoint = "https://steamcommunity.com/openid/login"

	openidNS         = "http://specs.openid.net/auth/2.0"
	identifierSelect = "http://specs.openid.net/auth/2.0/identifier_select"
)

// Matches the claimed_id Steam hands back; the capture group is the SteamID64.
var claimedIDPattern = regexp.MustCompile(`^https?://steamcommunity\.com/openid/id/([0-9]{15,25})$`)

var (
	ErrWrongMode       = errors.New("openid: mode must be id_res")
	ErrReturnURL       = errors.New("openid: return_to does not match the configured return URL")
	ErrNotValidated    = errors.New("openid: provider did not validate the assertion")
	ErrBadClaimedID    = errors.New("openid: claimed_id does not look like a steam id")
	ErrBadProviderResp = errors.New("openid: malformed provider response")
)

// Client performs the Steam OpenID 2.0 handshake. Realm and return URL come
// from configuration, never from the incoming request.
type Client struct {
	endpoint   string
	realm      string
	returnURL  string
	httpClient *http.Client
}

func NewClient(realm, returnURL string) *Client {
	return &Client{
		endpoint:   steamLoginEndpoint,
		realm:      realm,
		returnURL:  returnURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthURL builds the provider redirect that starts the login flow.
func (c *Client) AuthURL() string {
	v := url.Values{}
	v.Set("openid.ns", openidNS)
	v.Set("openid.mode", "checkid_setup")
	v.Set("openid.claimed_id", identifierSelect)
	v.Set("openid.identity", identifierSelect)
	v.Set("openid.realm", c.realm)
	v.Set("openid.return_to", c.returnURL)
	return c.endpoint + "?" + v.Encode()
}

// Verify validates the provider callback parameters via the OpenID
// check_authentication round trip and returns the asserted SteamID64.
func (c *Client) Verify(ctx context.Context, params url.Values) (string, error) {
	if params.Get("openid.mode") != "id_res" {
		return "", ErrWrongMode
	}
	if params.Get("openid.return_to") != c.returnURL {
		return "", ErrReturnURL
	}

	check := url.Values{}
	check.Set("openid.assoc_handle", params.Get("openid.assoc_handle"))
	check.Set("openid.signed", params.Get("openid.signed"))
	check.Set("openid.sig", params.Get("openid.sig"))
	check.Set("openid.ns", params.Get("openid.ns"))
	for _, field := range strings.Split(params.Get("openid.signed"), ",") {
		check.Set("openid."+field, params.Get("openid."+field))
	}
	check.Set("openid.mode", "check_authentication")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(check.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openid: check_authentication request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// The provider answers with key:value lines, e.g. "ns:...\nis_valid:true\n".
	lines := strings.Split(string(body), "\n")
	if len(lines) < 2 || lines[0] != "ns:"+openidNS {
		return "", ErrBadProviderResp
	}
	valid := false
	for _, line := range lines[1:] {
		if line == "is_valid:true" {
			valid = true
			break
		}
	}
	if !valid {
		return "", ErrNotValidated
	}

	m := claimedIDPattern.FindStringSubmatch(params.Get("openid.claimed_id"))
	if m == nil {
		return "", ErrBadClaimedID
	}
	return m[1], nil
}
