package collector

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"chatmd/chat"
	"chatmd/markdown"
	"chatmd/qa"
)

const fingerprintLen = 160

var (
	markdownImageRe = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	imageLinkRe     = regexp.MustCompile(`\[[^\]]*\]\(([^)]*\.(?i:png|jpe?g|gif|webp|bmp|svg)(?:\?[^)]*)?)\)`)
	imageURLRe      = regexp.MustCompile(`(?i)https?://\S*(?:\.(?:png|jpe?g|gif|webp|bmp|svg)(?:\?\S*)?|oaiusercontent\.com\S*|/backend-api/estuary/content\S*)`)
)

// Labels a chat UI renders around a user turn that carry no question text.
var noiseLabels = map[string]bool{
	"":                  true,
	"you said:":         true,
	"edit":              true,
	"copy":              true,
	"image":             true,
	"uploaded image":    true,
	"uploaded an image": true,
}

// UserQuestions lists the user's questions in document order for navigation.
// Entries with no usable text and repeats of an already listed question are
// dropped.
func (c *Collector) UserQuestions(root *goquery.Selection) []chat.QuestionEntry {
	var (
		entries []chat.QuestionEntry
		anchors = make(map[*html.Node]bool)
		keys    = make(map[string]bool)
	)

	root.FindMatcher(c.sel.userQuestion).Each(func(_ int, s *goquery.Selection) {
		anchor := s.ClosestMatcher(c.sel.questionAnchor)
		if anchor.Length() == 0 {
			anchor = s
		}
		node := anchor.Get(0)
		if anchors[node] {
			return
		}
		anchors[node] = true

		content := StripImageArtifacts(c.content(node))
		summary := qa.Summarize(content)
		if isNoise(summary) {
			return
		}

		key := stableKey(anchor, content)
		if keys[key] {
			return
		}
		keys[key] = true

		entries = append(entries, chat.QuestionEntry{
			ID:      key,
			Node:    node,
			Summary: summary,
		})
	})

	c.log.Debug().
		Int("questions", len(entries)).
		Msg("collected user questions")
	return entries
}

// StripImageArtifacts removes the placeholders and links an uploaded image
// leaves behind in a user turn, along with lines holding only a UI label.
func StripImageArtifacts(content string) string {
	content = markdownImageRe.ReplaceAllString(content, "")
	content = imageLinkRe.ReplaceAllString(content, "")
	content = imageURLRe.ReplaceAllString(content, "")

	var kept []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.ToLower(strings.TrimSpace(line))
		if trimmed != "" && noiseLabels[trimmed] {
			continue
		}
		kept = append(kept, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(markdown.NormalizeBlankLines(strings.Join(kept, "\n")))
}

func isNoise(summary string) bool {
	if summary == qa.EmptyQuestion {
		return true
	}
	return noiseLabels[strings.ToLower(strings.TrimSpace(summary))]
}

// stableKey prefers an identifier the page assigned. Otherwise it hashes the
// start of the normalized text together with its length.
func stableKey(s *goquery.Selection, content string) string {
	for _, attr := range []string{"data-message-id", "id"} {
		if v, ok := s.Attr(attr); ok && strings.TrimSpace(v) != "" {
			return v
		}
	}
	return Fingerprint(content)
}

// Fingerprint derives a compact key from text without keeping all of it.
func Fingerprint(content string) string {
	normalized := []rune(strings.Join(strings.Fields(content), " "))
	prefix := normalized
	if len(prefix) > fingerprintLen {
		prefix = prefix[:fingerprintLen]
	}
	sum := sha256.Sum256([]byte(string(prefix) + "|" + strconv.Itoa(len(normalized))))
	return "q-" + hex.EncodeToString(sum[:])[:16]
}
