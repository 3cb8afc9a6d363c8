package pipeline

import (
	"context"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

// HTMLSanitizer abstracts cleaning of untrusted HTML.
type HTMLSanitizer interface {
	SanitizeHTML(ctx context.Context, htmlContent string) (string, error)
}

// DefaultPolicy returns the policy used when raw HTML comes from untrusted
// authors: bluemonday's UGC policy plus the classes emitted by goldmark and
// chroma.
func DefaultPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\s-]+$`)).OnElements(
		"code", "pre", "span", "div", "sup", "section", "li", "a",
	)
	return p
}

// PolicySanitizer sanitizes HTML with a bluemonday policy.
type PolicySanitizer struct {
	policy *bluemonday.Policy
}

// NewPolicySanitizer creates a PolicySanitizer. A nil policy selects DefaultPolicy.
func NewPolicySanitizer(policy *bluemonday.Policy) *PolicySanitizer {
	if policy == nil {
		policy = DefaultPolicy()
	}
	return &PolicySanitizer{policy: policy}
}

// SanitizeHTML implements HTMLSanitizer.
func (s *PolicySanitizer) SanitizeHTML(ctx context.Context, htmlContent string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.policy.Sanitize(htmlContent), nil
}

// Compile-time interface check.
var _ HTMLSanitizer = (*PolicySanitizer)(nil)
