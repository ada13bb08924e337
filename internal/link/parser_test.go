package link

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"md-link-check/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		link       domain.Link
		wantReason domain.Reason
		validate   func(*testing.T, *url.URL)
	}{
		{
			name: "Valid https link",
			link: "https://example.com/a?b=c#d",
			validate: func(t *testing.T, u *url.URL) {
				assert.Equal(t, "https", u.Scheme)
				assert.Equal(t, "example.com", u.Host)
				assert.Equal(t, "/a", u.Path)
			},
		},
		{
			name: "Valid http link without path",
			link: "http://example.com:8080",
			validate: func(t *testing.T, u *url.URL) {
				assert.Equal(t, "example.com", u.Hostname())
				assert.Equal(t, "8080", u.Port())
			},
		},
		{
			name: "Upper case scheme",
			link: "HTTPS://example.com",
			validate: func(t *testing.T, u *url.URL) {
				assert.Equal(t, "https", u.Scheme)
			},
		},
		{name: "Broken scheme", link: "htp:/bad", wantReason: domain.ReasonMalformedURL},
		{name: "Missing scheme", link: "example.com/path", wantReason: domain.ReasonMalformedURL},
		{name: "Missing host", link: "https:///path", wantReason: domain.ReasonMalformedURL},
		{name: "Port without host", link: "https://:443/", wantReason: domain.ReasonMalformedURL},
		{name: "Invalid port", link: "https://example.com:port/", wantReason: domain.ReasonMalformedURL},
		{name: "Space in host", link: "https://exa mple.com", wantReason: domain.ReasonMalformedURL},
		{name: "Control character", link: "https://example.com/\x7f", wantReason: domain.ReasonMalformedURL},
		{name: "Surrounding whitespace", link: " https://example.com", wantReason: domain.ReasonMalformedURL},
		{name: "Empty", link: "", wantReason: domain.ReasonMalformedURL},
		{name: "FTP", link: "ftp://example.com/file", wantReason: domain.ReasonUnsupportedScheme},
		{name: "Mailto", link: "mailto:someone@example.com", wantReason: domain.ReasonUnsupportedScheme},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Parse(tt.link)
			assert.Equal(t, tt.wantReason, Reason(err))

			if tt.wantReason != domain.ReasonNone {
				assert.Error(t, err)
				assert.Nil(t, u)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, u)
			if tt.validate != nil {
				tt.validate(t, u)
			}
		})
	}
}
