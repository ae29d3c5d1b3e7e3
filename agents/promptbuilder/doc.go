/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package promptbuilder builds model prompts from templates without letting
request data rewrite the instructions around it.

Templates are string constants with {{name}} placeholders. Developer text is
bound with BindStringLiteral, which only accepts constants. Anything that
comes from a pull request (titles, descriptions, diffs) is bound through an
encoder (BindXML, BindYAML or BindJSON), so it arrives escaped and inside a
well-defined structure:

	var userPrompt = promptbuilder.MustNewPrompt(`Review this change:

	{{change}}`)

	p, err := userPrompt.BindXML("change", change)
	if err != nil {
		return err
	}
	text, err := p.Build()

Prompts are immutable; every Bind method returns a new Prompt and fails if
the placeholder does not exist or is already bound. Build fails while any
placeholder is unbound. Substitution is a single pass, so placeholder syntax
inside bound values is emitted verbatim.
*/
package promptbuilder
