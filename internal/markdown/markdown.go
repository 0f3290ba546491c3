// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts article bodies (Markdown with optional raw
// HTML) into HTML for newsletter emails and into plain text for speech
// synthesis and excerpts.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Typographer,
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
			highlighting.WithFormatOptions(),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(), // imported articles carry raw HTML bodies
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML embedded in the
// Markdown is passed through unchanged.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PlainText renders source and returns its visible text with all markup
// removed and whitespace collapsed to single spaces. Script and style
// contents are dropped.
func PlainText(source string) (string, error) {
	rendered, err := ToHTML(source)
	if err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return "", fmt.Errorf("parse rendered html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	// Block elements end with a space so adjacent paragraphs don't fuse.
	doc.Find("p, h1, h2, h3, h4, h5, h6, li, blockquote, pre, tr, br, div").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return NormalizeSpace(doc.Text()), nil
}

// NormalizeSpace collapses every run of whitespace into one space and
// trims the ends.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
