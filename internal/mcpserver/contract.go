package mcpserver

// LinkSyntax describes the cross-reference syntax the checker validates.
// LLM consumers should follow it when writing or fixing links.
const LinkSyntax = `# doclinks Link Syntax

Documents link to each other with three Markdown forms.

## Forms

` + "```" + `markdown
[text](/guide/setup#install)     direct link
[text][label]                    reference link
[label]                          shorthand reference

[label]: /guide/setup#install    label definition, at the start of a line
` + "```" + `

## Targets

1. **Internal targets** are ` + "`" + `/path#anchor` + "`" + `, ` + "`" + `/path` + "`" + ` or ` + "`" + `#anchor` + "`" + `.
   The path is relative to the docs root and has no extension;
   ` + "`" + `/guide/setup` + "`" + ` means ` + "`" + `guide/setup.md` + "`" + `. One trailing slash is ignored.
2. **External targets** start with a configured scheme (by default ` + "`" + `mailto:` + "`" + `,
   ` + "`" + `http://` + "`" + `, ` + "`" + `https://` + "`" + `). They are reported as unchecked, never as failures.
3. Anything else, including relative paths such as ` + "`" + `guide/setup` + "`" + `, is **malformed**.

## Labels

- Labels are case-insensitive and whitespace-insensitive: ` + "`" + `[My  Label]` + "`" + ` and
  ` + "`" + `[my label]` + "`" + ` are the same label.
- Defining a label twice is an error; the last definition wins.
- A shorthand reference only counts when its brackets are not directly
  preceded or followed by ` + "`" + `(` + "`" + ` or ` + "`" + `[` + "`" + `.

## Anchors

An anchor is derived from a heading: lower-cased with Unicode case folding,
spaces become ` + "`" + `-` + "`" + `, punctuation and percent escapes are dropped. Repeated headings
get ` + "`" + `-1` + "`" + `, ` + "`" + `-2` + "`" + ` and so on. Use the ` + "`" + `slugify` + "`" + ` and ` + "`" + `list_anchors` + "`" + ` tools
instead of guessing.

## Example

` + "```" + `markdown
# Setup

## Install

See [the overview](/index#goals) or the [FAQ][faq].
Questions go to [support].

[faq]: /guide/faq
[support]: mailto:docs@example.com
` + "```" + `
`
