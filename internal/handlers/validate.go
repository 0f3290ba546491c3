package handlers

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"
)

// Validation limits for content and subscriber fields.
const (
	maxTitleLen      = 300
	maxSlugLen       = 300
	maxBodyLen       = 100_000
	maxExcerptLen    = 1_000
	maxCoverImageLen = 2_000
	maxTags          = 20
	maxTagLen        = 50
	maxEmailLen      = 254
	maxNameLen       = 200
)

// validateContent checks content inputs and returns the first error found.
func validateContent(title, slug, body string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return "Title is required."
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "Title is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(slug) > maxSlugLen {
		return "Slug is too long (max 300 characters)."
	}
	if utf8.RuneCountInString(body) > maxBodyLen {
		return "Body is too long (max 100,000 characters)."
	}
	return ""
}

// validateExtras checks the optional item fields.
func validateExtras(excerpt, coverImage string, tags []string) string {
	if utf8.RuneCountInString(excerpt) > maxExcerptLen {
		return "Excerpt is too long (max 1,000 characters)."
	}
	if len(coverImage) > maxCoverImageLen {
		return "Cover image URL is too long (max 2,000 characters)."
	}
	if len(tags) > maxTags {
		return fmt.Sprintf("Too many tags (max %d).", maxTags)
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return "Tags must not be empty."
		}
		if utf8.RuneCountInString(tag) > maxTagLen {
			return fmt.Sprintf("Tag %q is too long (max %d characters).", tag, maxTagLen)
		}
	}
	return ""
}

// validateSubscriber checks a newsletter signup and returns the normalised
// address.
func validateSubscriber(email, name string) (string, string) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", "Email is required."
	}
	if len(email) > maxEmailLen {
		return "", "Email is too long."
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", "Email is not a valid address."
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "", "Name is too long (max 200 characters)."
	}
	return strings.ToLower(addr.Address), ""
}
