package contact

// Merge folds a patch into an existing record without discarding confirmed
// data. For every field except Notes the first writer wins: a non-empty
// existing value is kept and the incoming value is ignored. Notes accumulate;
// when both sides carry notes the incoming text is appended on a new line.
//
// Merge is pure. Explicit overwrites (forced manual edits, reset) go
// through Overwrite and the store's Replace rather than weakening the
// rule here.
func Merge(existing Record, incoming Patch) Record {
	out := existing
	for _, f := range Fields {
		value, ok := incoming[f]
		if !ok || value == "" {
			continue
		}
		if f == FieldNotes {
			if out.Notes == "" {
				out.Notes = value
			} else {
				out.Notes = out.Notes + "\n" + value
			}
			continue
		}
		if out.Get(f) == "" {
			out.set(f, value)
		}
	}
	return out
}

// Overwrite applies the patch on top of the existing record, replacing
// every field the patch names. This is the explicit manual-edit escape
// hatch from first-writer-wins; notes are replaced here, not appended.
func Overwrite(existing Record, incoming Patch) Record {
	out := existing
	for f, value := range incoming {
		if value == "" {
			continue
		}
		out.set(f, value)
	}
	return out
}
