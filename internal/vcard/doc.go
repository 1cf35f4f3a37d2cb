// Package vcard turns a raw decoded vCard text blob into a contact patch.
//
// The parser is deliberately forgiving: soft line folding and quoted-printable
// encoding are undone, grouped vendor prefixes (item1.TEL) are stripped, and a
// line that cannot be split on ':' is skipped rather than failing the parse.
// Unknown properties are never silently dropped; they land in the notes field
// as "KEY: value" lines. Multiple TEL/EMAIL candidates are ranked by their
// TYPE parameters and the best one wins the primary slot.
package vcard
