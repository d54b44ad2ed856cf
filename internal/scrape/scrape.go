// Package scrape pulls the visible text of a job-posting page so a posting
// can be submitted by URL instead of pasted manually.
package scrape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gocolly/colly/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36"

var blankLinePattern = regexp.MustCompile(`\n{3,}`)

// JobPosting fetches the page at url and returns its visible text. The
// caller is expected to review the result before storing it.
func JobPosting(url string) (string, error) {

	collector := colly.NewCollector(colly.UserAgent(userAgent))

	var text string
	var requestErr error

	collector.OnHTML("body", func(e *colly.HTMLElement) {
		dom := e.DOM.Clone()
		dom.Find("script, style, noscript").Remove()
		text = normalize(dom.Text())
	})

	collector.OnError(func(_ *colly.Response, err error) {
		requestErr = err
	})

	if err := collector.Visit(url); err != nil {
		return "", fmt.Errorf("failed to fetch job posting from %s: %w", url, err)
	}
	collector.Wait()

	if requestErr != nil {
		return "", fmt.Errorf("failed to fetch job posting from %s: %w", url, requestErr)
	}
	if text == "" {
		return "", fmt.Errorf("no text found at %s, try submitting the description manually", url)
	}
	return text, nil
}

func normalize(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	joined := strings.Join(lines, "\n")
	return strings.TrimSpace(blankLinePattern.ReplaceAllString(joined, "\n\n"))
}
