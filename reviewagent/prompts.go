/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package reviewagent

import (
	"encoding/xml"

	"chainguard.dev/quickreview/agents/promptbuilder"
	"chainguard.dev/quickreview/review"
)

// partList names the parts retrieve_context accepts.
const partList = "title, description, diff, files"

// systemInstructions for the review agent
var systemInstructions = promptbuilder.MustNewPrompt(`ROLE: Code reviewer for a single pull or merge request.

TOOLS:
- retrieve_context(part): part is one of {{parts}}.
- submit_review(summary, line_comments): line_comments is an optional list of
  {path, line, body} anchored to lines of the new version of a file.

RULES:
- Call retrieve_context at least once before reviewing.
- Call submit_review exactly once with your summary and any line comments.
- Failing to call submit_review fails the review.
- Be concise. Comment only on lines you have seen in the diff.`)

// requestPrompt asks for a review of a request whose content the model
// loads through retrieve_context.
var requestPrompt = promptbuilder.MustNewPrompt(`Review the following request.

{{request}}

Use retrieve_context(part) with part one of {{parts}} to load its content.
When done, call submit_review.`)

// changePrompt asks for a review of content that is already in hand.
var changePrompt = promptbuilder.MustNewPrompt(`Review the following change.

{{change}}

retrieve_context(part) returns the same parts on demand. When done, call submit_review.`)

type cdata struct {
	Text string `xml:",cdata"`
}

type requestYAML struct {
	Platform string `yaml:"platform"`
	Kind     string `yaml:"kind"`
	Owner    string `yaml:"owner"`
	Repo     string `yaml:"repo"`
	ID       string `yaml:"id"`
	URL      string `yaml:"url"`
}

type changeXML struct {
	XMLName     xml.Name `xml:"change"`
	Title       string   `xml:"title"`
	Description cdata    `xml:"description"`
	Diff        cdata    `xml:"diff"`
	Files       filesXML `xml:"files"`
}

type filesXML struct {
	Count int    `xml:"count,attr"`
	List  string `xml:",chardata"`
}

// requestBinding renders an identity into requestPrompt.
type requestBinding review.Identity

// Bind implements promptbuilder.Bindable.
func (r requestBinding) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	id := review.Identity(r)
	p, err := p.BindStringLiteral("parts", partList)
	if err != nil {
		return nil, err
	}
	return p.BindYAML("request", requestYAML{
		Platform: id.Platform.DisplayName(),
		Kind:     id.Platform.RequestNoun(),
		Owner:    id.Owner,
		Repo:     id.Repo,
		ID:       id.ID,
		URL:      id.URL(),
	})
}

// changeBinding renders a bundle into changePrompt.
type changeBinding struct {
	bundle *review.Bundle
}

// Bind implements promptbuilder.Bindable.
func (c changeBinding) Bind(p *promptbuilder.Prompt) (*promptbuilder.Prompt, error) {
	b := c.bundle
	return p.BindXML("change", changeXML{
		Title:       b.Title,
		Description: cdata{Text: b.Description},
		Diff:        cdata{Text: b.FullDiff()},
		Files:       filesXML{Count: len(b.Files), List: b.FileList()},
	})
}

func systemPrompt() (string, error) {
	p, err := systemInstructions.BindStringLiteral("parts", partList)
	if err != nil {
		return "", err
	}
	return p.Build()
}
