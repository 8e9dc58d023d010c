// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx builds the one-page word-processor document used to lay out
// a plain-text file. The template supplies page geometry, styles and the
// paragraph holding the {content} placeholder; the generated body keeps the
// template's section properties and replaces every paragraph with five
// blank paragraphs followed by the centered text.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Placeholder is the token replaced by the file's text.
const Placeholder = "{content}"

const (
	documentPart = "word/document.xml"
	// fontSizeHalfPoints is 22pt; WordprocessingML sizes are in half points.
	fontSizeHalfPoints = 44
	blankParagraphs    = 5
	latinFont          = "Times New Roman"
	eastAsiaFont       = "SimSun"
)

// ErrNoPlaceholder is returned when no template paragraph contains Placeholder.
var ErrNoPlaceholder = errors.New("template has no " + Placeholder + " paragraph")

var (
	bodyRe      = regexp.MustCompile(`(?s)(<w:body>)(.*)(</w:body>)`)
	paragraphRe = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*)?(?:/>|>.*?</w:p>)`)
	textRe      = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
	sectPrRe    = regexp.MustCompile(`(?s)<w:sectPr(?:\s[^>]*)?(?:/>|>.*?</w:sectPr>)`)
)

// Build reads the template at templatePath, substitutes text for the
// placeholder and writes the new document to dst.
func Build(templatePath, text, dst string) error {
	zr, err := zip.OpenReader(templatePath)
	if err != nil {
		return fmt.Errorf("opening template %s: %w", templatePath, err)
	}
	defer zr.Close()

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	found := false
	for _, f := range zr.File {
		data, err := readEntry(f)
		if err != nil {
			return fmt.Errorf("reading %s from %s: %w", f.Name, templatePath, err)
		}
		if f.Name == documentPart {
			data, err = render(data, text)
			if err != nil {
				return fmt.Errorf("%s: %w", templatePath, err)
			}
			found = true
		}
		w, err := zw.CreateHeader(&zip.FileHeader{Name: f.Name, Method: zip.Deflate, Modified: f.Modified})
		if err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("writing %s: %w", f.Name, err)
		}
	}
	if !found {
		return fmt.Errorf("%s: missing %s", templatePath, documentPart)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing %s: %w", dst, err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	if err := os.WriteFile(dst, out.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dst, err)
	}
	return nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// render rewrites the body of document.xml.
func render(doc []byte, text string) ([]byte, error) {
	m := bodyRe.FindSubmatchIndex(doc)
	if m == nil {
		return nil, fmt.Errorf("%s has no body", documentPart)
	}
	body := doc[m[4]:m[5]]

	line := ""
	found := false
	for _, p := range paragraphRe.FindAll(body, -1) {
		if pt := ParagraphText(p); strings.Contains(pt, Placeholder) {
			line = strings.Replace(pt, Placeholder, text, 1)
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNoPlaceholder
	}

	var nb bytes.Buffer
	for i := 0; i < blankParagraphs; i++ {
		nb.WriteString("<w:p/>")
	}
	nb.WriteString(centeredParagraph(line))
	if sect := sectPrRe.FindAll(body, -1); len(sect) > 0 {
		nb.Write(sect[len(sect)-1])
	}

	out := make([]byte, 0, len(doc)+nb.Len())
	out = append(out, doc[:m[4]]...)
	out = append(out, nb.Bytes()...)
	out = append(out, doc[m[5]:]...)
	return out, nil
}

// ParagraphText concatenates the text runs of one <w:p> element. Word often
// splits a placeholder across several runs, so matching is done on the joined
// text rather than on raw XML.
func ParagraphText(p []byte) string {
	var b strings.Builder
	for _, m := range textRe.FindAllSubmatch(p, -1) {
		b.WriteString(html.UnescapeString(string(m[1])))
	}
	return b.String()
}

func centeredParagraph(text string) string {
	var b strings.Builder
	b.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr><w:r>`)
	fmt.Fprintf(&b, `<w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s" w:eastAsia="%s"/><w:b w:val="0"/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr>`,
		latinFont, latinFont, eastAsiaFont, fontSizeHalfPoints, fontSizeHalfPoints)
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, l := range lines {
		if i > 0 {
			b.WriteString("<w:br/>")
		}
		b.WriteString(`<w:t xml:space="preserve">`)
		xml.EscapeText(&b, []byte(l))
		b.WriteString("</w:t>")
	}
	b.WriteString("</w:r></w:p>")
	return b.String()
}
