// Copyright (c) 2026 ToeiRei
// pybookmarks - bookmark management library
// This source code is licensed under the MIT license found in the LICENSE file.

// Package netscape reads and writes the Netscape bookmark file format that
// browsers use for bookmark import and export.
package netscape

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// Document is a parsed bookmark file. Root holds the top level entries.
type Document struct {
	Title string
	Root  Folder
}

// Folder is a named group of links and sub folders.
type Folder struct {
	Title   string
	AddDate time.Time
	Folders []*Folder
	Links   []Link
}

// Link is a single bookmark entry.
type Link struct {
	URL     string
	Title   string
	AddDate time.Time
	Tags    []string
}

// Count returns the number of folders and links below f.
func (f *Folder) Count() (folders, links int) {
	links = len(f.Links)
	for _, sub := range f.Folders {
		fo, li := sub.Count()
		folders += fo + 1
		links += li
	}
	return folders, links
}

func parseUnix(v string) time.Time {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil || n <= 0 {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}

func splitTags(v string) []string {
	var out []string
	for _, t := range strings.Split(v, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Parse reads a bookmark file. The format is not well formed HTML, so the
// structure is recovered from the token stream: every <DL> opens the folder
// announced by the preceding <H3>.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}
	z := html.NewTokenizer(r)

	var (
		stack   []*Folder
		pending *Folder
		link    *Link
		text    strings.Builder
		capture string
	)
	current := func() *Folder {
		if len(stack) == 0 {
			return &doc.Root
		}
		return stack[len(stack)-1]
	}
	// flushPending attaches a folder header that was not followed by a list.
	flushPending := func() {
		if pending != nil {
			cur := current()
			cur.Folders = append(cur.Folders, pending)
			pending = nil
		}
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				flushPending()
				return doc, nil
			}
			return nil, fmt.Errorf("parse bookmark file: %w", z.Err())

		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			attrs := map[string]string{}
			for hasAttr {
				var k, v []byte
				k, v, hasAttr = z.TagAttr()
				attrs[string(k)] = string(v)
			}
			switch string(name) {
			case "title", "h1":
				capture = string(name)
				text.Reset()
			case "h3":
				flushPending()
				pending = &Folder{AddDate: parseUnix(attrs["add_date"])}
				capture = "h3"
				text.Reset()
			case "a":
				flushPending()
				link = &Link{
					URL:     strings.TrimSpace(attrs["href"]),
					AddDate: parseUnix(attrs["add_date"]),
					Tags:    splitTags(attrs["tags"]),
				}
				capture = "a"
				text.Reset()
			case "dl":
				switch {
				case stack == nil:
					stack = []*Folder{&doc.Root}
				case pending != nil:
					cur := current()
					cur.Folders = append(cur.Folders, pending)
					stack = append(stack, pending)
					pending = nil
				default:
					// A stray list continues the current folder.
					stack = append(stack, current())
				}
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == capture {
				value := strings.TrimSpace(text.String())
				switch tag {
				case "title":
					doc.Title = value
				case "h1":
					if doc.Title == "" {
						doc.Title = value
					}
				case "h3":
					if pending != nil {
						pending.Title = value
					}
				case "a":
					if link != nil {
						link.Title = value
						cur := current()
						cur.Links = append(cur.Links, *link)
						link = nil
					}
				}
				capture = ""
			}
			if tag == "dl" && len(stack) > 0 {
				flushPending()
				stack = stack[:len(stack)-1]
			}

		case html.TextToken:
			if capture != "" {
				text.Write(z.Text())
			}
		}
	}
}

const header = `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<!-- This is an automatically generated file.
     It will be read and overwritten.
     DO NOT EDIT! -->
<META HTTP-EQUIV="Content-Type" CONTENT="text/html; charset=UTF-8">
`

// Write renders doc in the Netscape bookmark format.
func Write(w io.Writer, doc *Document) error {
	title := doc.Title
	if title == "" {
		title = "Bookmarks"
	}
	bw := bufio.NewWriter(w)
	_, _ = bw.WriteString(header)
	_, _ = fmt.Fprintf(bw, "<TITLE>%s</TITLE>\n<H1>%s</H1>\n<DL><p>\n", html.EscapeString(title), html.EscapeString(title))
	writeFolder(bw, &doc.Root, 1)
	_, _ = bw.WriteString("</DL><p>\n")
	return bw.Flush()
}

func dateAttr(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf(` ADD_DATE="%d"`, t.Unix())
}

func writeFolder(w *bufio.Writer, f *Folder, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, sub := range f.Folders {
		_, _ = fmt.Fprintf(w, "%s<DT><H3%s>%s</H3>\n", indent, dateAttr(sub.AddDate), html.EscapeString(sub.Title))
		_, _ = fmt.Fprintf(w, "%s<DL><p>\n", indent)
		writeFolder(w, sub, depth+1)
		_, _ = fmt.Fprintf(w, "%s</DL><p>\n", indent)
	}
	for _, l := range f.Links {
		tags := ""
		if len(l.Tags) > 0 {
			tags = fmt.Sprintf(` TAGS="%s"`, html.EscapeString(strings.Join(l.Tags, ",")))
		}
		_, _ = fmt.Fprintf(w, "%s<DT><A HREF=\"%s\"%s%s>%s</A>\n", indent, html.EscapeString(l.URL), dateAttr(l.AddDate), tags, html.EscapeString(l.Title))
	}
}
