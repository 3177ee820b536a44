package parser

import (
	"regexp"
	"strings"
)

var (
	imageTagPattern  = regexp.MustCompile(`\[lumia_img=([^\]]*)\]`)
	authorTagPattern = regexp.MustCompile(`\[lumia_author=([^\]]*)\]`)
)

// ImageTagPrefix marks definition content carrying an avatar.
const ImageTagPrefix = "[lumia_img="

type Metadata struct {
	CleanContent string
	Image        *string
	Author       *string
}

// ExtractMetadata strips the first [lumia_img=...] and the first
// [lumia_author=...] tag from text. Further occurrences of the same tag
// stay in CleanContent untouched.
func ExtractMetadata(text string) Metadata {
	cleaned, image := extractFirst(text, imageTagPattern)
	cleaned, author := extractFirst(cleaned, authorTagPattern)
	return Metadata{
		CleanContent: strings.TrimSpace(cleaned),
		Image:        image,
		Author:       author,
	}
}

func extractFirst(text string, pattern *regexp.Regexp) (string, *string) {
	loc := pattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return text, nil
	}
	value := strings.TrimSpace(text[loc[2]:loc[3]])
	cleaned := text[:loc[0]] + text[loc[1]:]
	if value == "" {
		return cleaned, nil
	}
	return cleaned, &value
}
