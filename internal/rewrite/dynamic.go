package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Defaults for dynamic mode. The loader functions and the config script are
// provided by the page itself.
const (
	DefaultConfigScript = "config.js"
	DefaultJSLoader     = "loadJS"
	DefaultCSSLoader    = "loadCSS"
)

var (
	scriptTagPattern     = regexp.MustCompile(`<script src="([^"]+\.js)(?:\?v=[^"]*)?"></script>`)
	stylesheetTagPattern = regexp.MustCompile(`<link rel="stylesheet" href="([^"]+\.css)(?:\?v=[^"]*)?">`)
)

const headTag = "<head>"

// DynamicOptions configures the Dynamic rewriter.
type DynamicOptions struct {
	// ConfigScript is the file name of the script that defines the loaders.
	ConfigScript string
	JSLoader     string
	CSSLoader    string
}

func (o *DynamicOptions) applyDefaults() {
	if o.ConfigScript == "" {
		o.ConfigScript = DefaultConfigScript
	}
	if o.JSLoader == "" {
		o.JSLoader = DefaultJSLoader
	}
	if o.CSSLoader == "" {
		o.CSSLoader = DefaultCSSLoader
	}
}

// Dynamic converts script and stylesheet tags into loader calls and hoists
// the config script to the top of <head>. Files without a config script tag
// are left alone.
type Dynamic struct {
	opts          DynamicOptions
	configPattern *regexp.Regexp
}

// NewDynamic creates a Dynamic rewriter.
func NewDynamic(opts DynamicOptions) *Dynamic {
	opts.applyDefaults()
	return &Dynamic{
		opts:          opts,
		configPattern: regexp.MustCompile(
			`<script src="([^"]*` + regexp.QuoteMeta(opts.ConfigScript) + `)(?:\?v=[^"]*)?"></script>`,
		),
	}
}

// Name implements Rewriter.
func (d *Dynamic) Name() string {
	return string(ModeDynamic)
}

// Rewrite implements Rewriter.
func (d *Dynamic) Rewrite(content string) string {
	m := d.configPattern.FindStringSubmatch(content)
	if m == nil {
		return content
	}
	configTag := fmt.Sprintf(`<script src="%s"></script>`, m[1])

	out := scriptTagPattern.ReplaceAllStringFunc(content, func(tag string) string {
		path := scriptTagPattern.FindStringSubmatch(tag)[1]
		if strings.Contains(path, d.opts.ConfigScript) {
			return ""
		}
		return loaderCall(d.opts.JSLoader, path)
	})
	out = stylesheetTagPattern.ReplaceAllStringFunc(out, func(tag string) string {
		return loaderCall(d.opts.CSSLoader, stylesheetTagPattern.FindStringSubmatch(tag)[1])
	})

	if strings.Contains(out, headTag) {
		out = strings.ReplaceAll(out, headTag, headTag+"\n    "+configTag)
	}

	return out
}

func loaderCall(fn, path string) string {
	return fmt.Sprintf(`<script>%s("%s");</script>`, fn, path)
}
