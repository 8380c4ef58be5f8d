// package proxy implements URL rewrite schemes used to route outbound
// requests through a CORS-style relay.
//
// A scheme is a URL template with <%key%> placeholders, each naming a string
// component of the target URL. Patterns are validated and parsed once, then
// applied to every outbound request by [Transport].
package proxy

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	ErrInsufficientScheme = fmt.Errorf("pattern must include at least one <%%key%%> placeholder")
	ErrMalformedScheme    = fmt.Errorf("pattern placeholders must name string URL components")
)

// Scheme describes a URL rewrite template before parsing.
type Scheme struct {
	Name    string `toml:"name" json:"name"`
	Encode  bool   `toml:"encode" json:"encode"`
	Pattern string `toml:"pattern" json:"pattern"`
}

// ParsedScheme is a validated Scheme with its placeholder keys extracted.
type ParsedScheme struct {
	Scheme
	keys []string
}

var placeholderPattern = regexp.MustCompile(`<%(\w+)%>`)

// components maps placeholder names to extractors over the target URL.
// Every entry yields a plain string, mirroring the string-typed parts of a URL.
var components = map[string]func(u *url.URL) string{
	"url":      func(u *url.URL) string { return u.String() },
	"scheme":   func(u *url.URL) string { return u.Scheme },
	"host":     func(u *url.URL) string { return u.Host },
	"hostname": func(u *url.URL) string { return u.Hostname() },
	"port":     func(u *url.URL) string { return u.Port() },
	"path":     func(u *url.URL) string { return u.Path },
	"query":    func(u *url.URL) string { return u.RawQuery },
	"fragment": func(u *url.URL) string { return u.Fragment },
	"user":     func(u *url.URL) string { return u.User.String() },
}

// ComponentNames returns the placeholder names accepted in a pattern.
func ComponentNames() []string {
	names := make([]string, 0, len(components))
	for name := range components {
		names = append(names, name)
	}
	return names
}

// ParseScheme validates a scheme and extracts its placeholder keys.
//
// A pattern must contain at least one <%key%> placeholder and every
// placeholder must name a known URL component, otherwise the scheme is
// rejected before it can be activated.
func ParseScheme(s Scheme) (*ParsedScheme, error) {
	matches := placeholderPattern.FindAllStringSubmatch(s.Pattern, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: pattern %q", ErrInsufficientScheme, s.Pattern)
	}

	keys := make([]string, 0, len(matches))
	for _, match := range matches {
		key := match[1]
		if _, ok := components[key]; !ok {
			return nil, fmt.Errorf("%w: pattern %q has unknown key %q", ErrMalformedScheme, s.Pattern, key)
		}
		keys = append(keys, key)
	}

	return &ParsedScheme{Scheme: s, keys: keys}, nil
}

// Parsable reports whether a scheme passes validation.
func Parsable(s Scheme) bool {
	_, err := ParseScheme(s)
	return err == nil
}

// Rewrite substitutes the components of raw into the scheme's pattern.
func (p *ParsedScheme) Rewrite(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse target URL %q: %w", raw, err)
	}

	final := p.Pattern
	for _, key := range p.keys {
		value := components[key](parsed)
		if p.Encode {
			value = url.QueryEscape(value)
		}
		final = strings.Replace(final, "<%"+key+"%>", value, 1)
	}

	return final, nil
}
