package application

import (
	"fmt"
	"regexp"
	"strings"
)

// HTMLNormalizer rewrites stored rich-text HTML into a form safe to inject
// into the blog's rendering surface.
type HTMLNormalizer interface {
	Normalize(html string) string
}

// Normalizer is a best-effort pattern pass over authored HTML: it unescapes
// upstream entity escaping, canonicalizes video embeds, completes iframe
// attributes, normalizes external link targets, and wraps code blocks with a
// copy affordance. Malformed input is left alone, never rejected, and the
// whole pass is idempotent.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(html string) string {
	if html == "" {
		return html
	}
	out := unescapeEntities(html)
	out = rewriteEmbedURLs(out)
	out = completeIframes(out)
	out = normalizeEmbedContainers(out)
	out = normalizeAnchorTargets(out)
	out = wrapCodeBlocks(out)
	return out
}

var (
	iframeSrcPattern = regexp.MustCompile(`(?i)<iframe[^>]*\ssrc=["']([^"']+)["'][^>]*>`)
	// Matches an iframe open tag (self-closing or not) together with an
	// optional existing closing tag, so the pair can be rebuilt as exactly
	// one explicit open/close.
	iframeTagPattern      = regexp.MustCompile(`(?i)<iframe([^>]*?)\s*/?>(\s*</iframe>)?`)
	watchURLPattern       = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([a-zA-Z0-9_-]+)`)
	embedContainerPattern = regexp.MustCompile(`(?i)<div[^>]*class=["'][^"']*embed-container[^"']*["'][^>]*>\s*(<iframe[^>]*></iframe>)\s*</div>`)
	embedWrapperPattern   = regexp.MustCompile(`(?i)<div[^>]*class=["']embed-wrapper[^"']*["'][^>]*>\s*(<iframe[^>]*></iframe>)\s*</div>`)
	anchorPattern         = regexp.MustCompile(`(?i)<a\s([^>]*)>`)
	preBlockPattern       = regexp.MustCompile(`(?is)<pre([^>]*)>(.*?)</pre>`)
	codeTagPattern        = regexp.MustCompile(`(?i)</?code[^>]*>`)
)

// unescapeEntities reverses HTML-entity escaping applied upstream so that
// embedded tags are live markup. &amp; must be handled last; otherwise a
// sequence like &amp;lt; would resolve twice.
func unescapeEntities(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#x27;", "'")
	return strings.ReplaceAll(s, "&amp;", "&")
}

// convertToEmbedURL rewrites a YouTube "watch" or short URL to the embed
// form. Anything else passes through unchanged.
func convertToEmbedURL(url string) string {
	if m := watchURLPattern.FindStringSubmatch(url); m != nil {
		return "https://www.youtube.com/embed/" + m[1]
	}
	return url
}

func rewriteEmbedURLs(html string) string {
	return iframeSrcPattern.ReplaceAllStringFunc(html, func(tag string) string {
		m := iframeSrcPattern.FindStringSubmatch(tag)
		src := m[1]
		embedURL := convertToEmbedURL(src)
		if embedURL == src {
			return tag
		}
		if strings.Contains(tag, `src="`+src+`"`) {
			return strings.Replace(tag, `src="`+src+`"`, `src="`+embedURL+`"`, 1)
		}
		return strings.Replace(tag, `src='`+src+`'`, `src='`+embedURL+`'`, 1)
	})
}

// completeIframes fills in playback permissions, dimensions and frameborder
// when absent, and rebuilds every iframe as an explicit open/close pair.
// Existing attributes are never overwritten.
func completeIframes(html string) string {
	return iframeTagPattern.ReplaceAllStringFunc(html, func(tag string) string {
		m := iframeTagPattern.FindStringSubmatch(tag)
		attrs := strings.TrimRight(m[1], " ")
		lower := strings.ToLower(attrs)
		if !strings.Contains(lower, "allowfullscreen") {
			attrs += " allowfullscreen"
		}
		if !strings.Contains(lower, "allow=") {
			attrs += ` allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture"`
		}
		if !strings.Contains(lower, "width=") {
			attrs += ` width="100%"`
		}
		if !strings.Contains(lower, "height=") {
			attrs += ` height="400"`
		}
		if !strings.Contains(lower, "frameborder=") {
			attrs += ` frameborder="0"`
		}
		return "<iframe" + attrs + "></iframe>"
	})
}

// normalizeEmbedContainers keeps styled embed-container divs in a canonical
// form and strips leftover embed-wrapper divs from the editor.
func normalizeEmbedContainers(html string) string {
	out := embedContainerPattern.ReplaceAllString(html, `<div class="embed-container my-4">$1</div>`)
	return embedWrapperPattern.ReplaceAllString(out, "$1")
}

// normalizeAnchorTargets opens absolute links in a new tab. Authored target
// and rel attributes are left alone.
func normalizeAnchorTargets(html string) string {
	return anchorPattern.ReplaceAllStringFunc(html, func(tag string) string {
		m := anchorPattern.FindStringSubmatch(tag)
		attrs := m[1]
		lower := strings.ToLower(attrs)
		if !strings.Contains(lower, `href="http`) && !strings.Contains(lower, `href='http`) {
			return tag
		}
		if !strings.Contains(lower, "target=") {
			attrs += ` target="_blank"`
		}
		if !strings.Contains(lower, "rel=") {
			attrs += ` rel="noopener noreferrer"`
		}
		return "<a " + attrs + ">"
	})
}

// wrapCodeBlocks wraps every <pre> block in a container carrying a block id,
// a detected language class for the highlighter, and a copy button bound to
// that id. The code text is re-escaped as literal text; whitespace and
// newlines are preserved byte-for-byte.
//
// Block ids are positional, so re-running the pass regenerates the same ids;
// a pre that already carries data-code-id is rebuilt in place rather than
// wrapped again.
func wrapCodeBlocks(html string) string {
	blockNum := 0
	return preBlockPattern.ReplaceAllStringFunc(html, func(match string) string {
		blockNum++
		m := preBlockPattern.FindStringSubmatch(match)
		attrs, inner := m[1], m[2]

		text := codeTagPattern.ReplaceAllString(inner, "")
		text = unescapeEntities(text)

		id := fmt.Sprintf("code-block-%d", blockNum)
		lang := detectLanguage(text)
		pre := fmt.Sprintf(`<pre class="code-block" data-code-id="%s"><code class="language-%s">%s</code></pre>`,
			id, lang, escapeCode(text))

		if strings.Contains(attrs, "data-code-id") {
			return pre
		}
		return fmt.Sprintf(`<div class="code-block-wrapper" data-code-id="%s">%s%s</div>`,
			id, copyButton(id), pre)
	})
}

const (
	copyIconSVG  = `<svg class="code-copy-icon" xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round"><rect x="9" y="9" width="13" height="13" rx="2" ry="2"></rect><path d="M5 15H4a2 2 0 0 1-2-2V4a2 2 0 0 1 2-2h9a2 2 0 0 1 2 2v1"></path></svg>`
	checkIconSVG = `<svg class="code-copy-check" xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" style="display: none;"><polyline points="20 6 9 17 4 12"></polyline></svg>`
)

func copyButton(id string) string {
	return `<button class="code-copy-btn" data-code-id="` + id + `" title="Copy code" aria-label="Copy code to clipboard">` +
		copyIconSVG + checkIconSVG + `</button>`
}

// detectLanguage guesses the source language of a code block by keyword
// sniffing. It feeds the highlighter a language-<lang> class; "text" is the
// fallback when nothing matches.
func detectLanguage(code string) string {
	c := strings.ToLower(strings.TrimSpace(code))
	switch {
	case strings.Contains(c, "def ") || (strings.Contains(c, "from") && strings.Contains(c, "import")):
		return "python"
	case strings.Contains(c, "function") || strings.Contains(c, "const ") || strings.Contains(c, "let ") || strings.Contains(c, "=>"):
		return "javascript"
	case strings.Contains(c, "interface") || strings.Contains(c, "type ") || strings.Contains(c, ": string") || strings.Contains(c, ": number"):
		return "typescript"
	case strings.Contains(c, "models:") || strings.Contains(c, "merge_method:") || strings.Contains(c, "base_model:"):
		return "yaml"
	case strings.Contains(c, "{") && strings.Contains(c, "}") && (strings.Contains(c, `"`) || strings.Contains(c, "'")):
		return "json"
	case strings.Contains(c, "<!doctype") || strings.Contains(c, "<html") || strings.Contains(c, "<div"):
		return "html"
	case strings.Contains(c, "@media") || strings.Contains(c, "@import") || (strings.Contains(c, "{") && strings.Contains(c, ":")):
		return "css"
	default:
		return "text"
	}
}

// escapeCode escapes code text for literal display inside <code>.
func escapeCode(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	return strings.ReplaceAll(text, ">", "&gt;")
}
