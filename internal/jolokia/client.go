// Package jolokia implements the metric fetcher for Jolokia HTTP bridge
// agents. It satisfies the check.Fetcher contract: one read per call, no
// retries, typed errors for the boundary to map to UNKNOWN.
package jolokia

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/beancheck/beancheck/internal/check"
	"github.com/beancheck/beancheck/internal/logger"
)

// DefaultTimeout bounds a single bridge request when no timeout is
// configured.
const DefaultTimeout = 10 * time.Second

// Client fetches MBean values over HTTP. One Client serves any number of
// bridge targets; the coordinates come from each descriptor. It is safe for
// concurrent use.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client with the given request timeout. A zero timeout
// selects DefaultTimeout.
func NewClient(timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// readResponse is the subset of the bridge's read envelope the plugin
// consumes. A single-bean read carries the bean name under request.mbean;
// pattern reads do not, and return a bean-to-content map as the value.
type readResponse struct {
	Status  int             `json:"status"`
	Error   string          `json:"error"`
	Value   json.RawMessage `json:"value"`
	Request readRequest     `json:"request"`
}

type readRequest struct {
	Type  string `json:"type"`
	MBean string `json:"mbean"`
}

// Fetch reads one numeric value for the descriptor: the whole attribute map
// of the bean is requested and the attribute (and optional key) extracted
// from it. Transport failures return a ConnectionError; anything unusable in
// the response returns a ResponseError. Pattern reads that resolve to more
// or less than one bean are rejected, since a check needs exactly one value.
func (c *Client) Fetch(ctx context.Context, d check.MetricDescriptor) (float64, error) {
	d = d.Normalize()
	url := readURL(d)

	envelope, err := c.get(ctx, url)
	if err != nil {
		return 0, err
	}

	if envelope.Request.MBean == "" {
		var beans map[string]json.RawMessage
		if err := json.Unmarshal(envelope.Value, &beans); err != nil {
			return 0, &ResponseError{URL: url, Reason: "pattern read returned an unreadable value"}
		}
		return 0, &ResponseError{URL: url, Reason: fmt.Sprintf("pattern read matched %d beans, need exactly one", len(beans))}
	}

	var content map[string]any
	if err := json.Unmarshal(envelope.Value, &content); err != nil {
		return 0, &ResponseError{URL: url, Reason: "bean content is not an attribute map"}
	}

	attr, ok := content[d.Attribute]
	if !ok {
		return 0, &ResponseError{URL: url, Reason: fmt.Sprintf("attribute %q not found on bean %s", d.Attribute, d.Bean)}
	}

	if d.Key != "" {
		keyed, ok := attr.(map[string]any)
		if !ok {
			return 0, &ResponseError{URL: url, Reason: fmt.Sprintf("attribute %q has no keyed values", d.Attribute)}
		}
		attr, ok = keyed[d.Key]
		if !ok {
			return 0, &ResponseError{URL: url, Reason: fmt.Sprintf("key %q not found in attribute %q", d.Key, d.Attribute)}
		}
	}

	value, ok := attr.(float64)
	if !ok {
		return 0, &ResponseError{URL: url, Reason: fmt.Sprintf("value of %s is %T, not numeric", d.Label(), attr)}
	}

	logger.Debug("fetched metric", "bean", d.Bean, "attribute", d.Attribute, "key", d.Key, "value", value)
	return value, nil
}

// Endpoint addresses a bridge without naming a bean, for discovery calls.
type Endpoint struct {
	Host    string
	Port    int
	Context string
}

// BeanTree maps JMX domain -> bean properties -> sorted attribute names, as
// reported by the bridge's list operation.
type BeanTree map[string]map[string][]string

// List fetches the bridge's MBean hierarchy for operator discovery. When
// domain is non-empty only that domain is returned; an unknown domain yields
// an empty tree.
func (c *Client) List(ctx context.Context, ep Endpoint, domain string) (BeanTree, error) {
	d := check.MetricDescriptor{Host: ep.Host, Port: ep.Port, Context: ep.Context}.Normalize()
	url := fmt.Sprintf("http://%s:%d/%s/list", d.Host, d.Port, d.Context)

	envelope, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var domains map[string]map[string]struct {
		Attr map[string]json.RawMessage `json:"attr"`
	}
	if err := json.Unmarshal(envelope.Value, &domains); err != nil {
		return nil, &ResponseError{URL: url, Reason: "list value is not a domain map"}
	}

	tree := make(BeanTree)
	for name, beans := range domains {
		if domain != "" && name != domain {
			continue
		}
		tree[name] = make(map[string][]string, len(beans))
		for bean, meta := range beans {
			attrs := make([]string, 0, len(meta.Attr))
			for attr := range meta.Attr {
				attrs = append(attrs, attr)
			}
			sort.Strings(attrs)
			tree[name][bean] = attrs
		}
	}

	return tree, nil
}

// get performs one GET and validates the bridge envelope.
func (c *Client) get(ctx context.Context, url string) (*readResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectionError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ResponseError{URL: url, Reason: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}

	var envelope readResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, &ResponseError{URL: url, Reason: "malformed JSON: " + err.Error()}
	}

	if envelope.Error != "" {
		return nil, &ResponseError{URL: url, Reason: "bridge error: " + envelope.Error}
	}
	if envelope.Status != 0 && envelope.Status != http.StatusOK {
		return nil, &ResponseError{URL: url, Reason: fmt.Sprintf("bridge status %d", envelope.Status)}
	}
	if len(envelope.Value) == 0 {
		return nil, &ResponseError{URL: url, Reason: "response has no value field"}
	}

	return &envelope, nil
}

// readURL builds the bridge read URL for a normalized descriptor. The bean
// name is passed through unescaped, matching what bridge agents expect.
func readURL(d check.MetricDescriptor) string {
	return fmt.Sprintf("http://%s:%d/%s/read/%s", d.Host, d.Port, d.Context, d.Bean)
}
