// Package namecheap implements the registrar batch availability source on
// top of the namecheap.domains.check API command. The wire format is an
// XML body carrying per-domain availability and premium pricing as
// attributes; see https://www.namecheap.com/support/api/methods/.
package namecheap

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/benithors/dotresolve/internal/registrar"
)

const defaultBaseURL = "https://api.namecheap.com/xml.response"

// defaultClientIP is sent when no caller IP is configured. The API rejects
// requests without a ClientIp parameter, so a literal is required.
const defaultClientIP = "127.0.0.1"

type Options struct {
	APIUser  string
	APIKey   string
	Username string
	ClientIP string
	BaseURL  string
	Timeout  time.Duration
}

type Client struct {
	opts Options
	http *http.Client
}

func NewClient(opts Options) (*Client, error) {
	opts.APIUser = strings.TrimSpace(opts.APIUser)
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	if opts.APIUser == "" || opts.APIKey == "" {
		return nil, errors.New("namecheap: missing api credentials (set NAMECHEAP_API_USER and NAMECHEAP_API_KEY)")
	}
	if opts.Username == "" {
		opts.Username = opts.APIUser
	}
	if opts.ClientIP == "" {
		opts.ClientIP = defaultClientIP
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	return &Client{
		opts: opts,
		http: &http.Client{Timeout: opts.Timeout},
	}, nil
}

func (c *Client) Name() string { return "namecheap" }

// CheckDomains issues one namecheap.domains.check call for the whole
// batch. A response with an error marker, an undecodable body, or zero
// extracted records is an error: an empty result is indistinguishable from
// a parsing mismatch and must not read as "nothing is available".
func (c *Client) CheckDomains(ctx context.Context, domains []string) ([]registrar.DomainCheck, error) {
	if len(domains) == 0 {
		return nil, errors.New("namecheap: empty domain list")
	}

	params := url.Values{}
	params.Add("ApiUser", c.opts.APIUser)
	params.Add("ApiKey", c.opts.APIKey)
	params.Add("UserName", c.opts.Username)
	params.Add("ClientIp", c.opts.ClientIP)
	params.Add("Command", "namecheap.domains.check")
	params.Add("DomainList", strings.Join(domains, ","))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.BaseURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("content-type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "namecheap: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, "namecheap: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("namecheap: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded apiResponse
	if err := xml.Unmarshal(body, &decoded); err != nil {
		return nil, errors.Wrap(err, "namecheap: decode response")
	}
	if msg := decoded.errorMessage(); msg != "" {
		return nil, errors.Errorf("namecheap: api error: %s", msg)
	}

	records := decoded.CommandResponse.DomainCheckResults
	if len(records) == 0 {
		return nil, errors.New("namecheap: no domain records in response")
	}

	out := make([]registrar.DomainCheck, 0, len(records))
	for _, rec := range records {
		name := strings.ToLower(strings.TrimSpace(rec.Domain))
		if name == "" {
			continue
		}
		check := registrar.DomainCheck{
			Domain:    name,
			Available: rec.Available,
			Premium:   rec.IsPremiumName,
		}
		if rec.IsPremiumName {
			if price, err := strconv.ParseFloat(strings.TrimSpace(rec.PremiumRegistrationPrice), 64); err == nil && price > 0 {
				check.PremiumPrice = price
			}
		}
		out = append(out, check)
	}
	if len(out) == 0 {
		return nil, errors.New("namecheap: no usable domain records in response")
	}
	return out, nil
}

type apiResponse struct {
	XMLName xml.Name `xml:"ApiResponse"`
	Status  string   `xml:"Status,attr"`
	Errors  struct {
		Error []struct {
			Number  string `xml:"Number,attr"`
			Message string `xml:",chardata"`
		} `xml:"Error"`
	} `xml:"Errors"`
	CommandResponse struct {
		DomainCheckResults []domainCheckResult `xml:"DomainCheckResult"`
	} `xml:"CommandResponse"`
}

type domainCheckResult struct {
	Domain                   string `xml:"Domain,attr"`
	Available                bool   `xml:"Available,attr"`
	IsPremiumName            bool   `xml:"IsPremiumName,attr"`
	PremiumRegistrationPrice string `xml:"PremiumRegistrationPrice,attr"`
}

func (r *apiResponse) errorMessage() string {
	if len(r.Errors.Error) > 0 {
		parts := make([]string, 0, len(r.Errors.Error))
		for _, e := range r.Errors.Error {
			parts = append(parts, strings.TrimSpace(e.Number+" "+e.Message))
		}
		return strings.Join(parts, "; ")
	}
	if strings.EqualFold(r.Status, "ERROR") {
		return "status ERROR"
	}
	return ""
}
