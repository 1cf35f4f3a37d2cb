// Package extract recovers contact fields from free-form OCR text using an
// ordered list of heuristics: emails, phone digit groups, role and company
// keyword lines, a candidate name line, and URL/social-network probes.
//
// The heuristics assume the mixed Spanish/English vocabulary found on
// business cards in the original capture corpus; keyword matching folds
// diacritics so "Ingeniería" matches "ingenieria". Whatever the heuristics
// miss is still preserved: the full recognized text is appended verbatim to
// the notes, so a misfire never loses a capture.
package extract
