package rewrite

import (
	"regexp"
	"strings"
)

var (
	scriptSrcPattern = regexp.MustCompile(`src=["']([^"']+\.js)(?:\?v=[^"']*)?["']`)
	styleHrefPattern = regexp.MustCompile(`href=["']([^"']+\.css)(?:\?v=[^"']*)?["']`)
)

// Static appends ?v=<version> to script src and stylesheet href values,
// replacing any version query already present.
type Static struct {
	srcTmpl  string
	hrefTmpl string
}

// NewStatic creates a Static rewriter for version.
func NewStatic(version string) *Static {
	// "$" in the version must survive regexp template expansion
	literal := strings.ReplaceAll(version, "$", "$$")
	return &Static{
		srcTmpl:  `src="${1}?v=` + literal + `"`,
		hrefTmpl: `href="${1}?v=` + literal + `"`,
	}
}

// Name implements Rewriter.
func (s *Static) Name() string {
	return string(ModeStatic)
}

// Rewrite implements Rewriter.
func (s *Static) Rewrite(content string) string {
	out := scriptSrcPattern.ReplaceAllString(content, s.srcTmpl)
	return styleHrefPattern.ReplaceAllString(out, s.hrefTmpl)
}
