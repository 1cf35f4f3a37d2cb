// Package contact defines the contact record assembled from the capture
// channels, the patch type each channel contributes, and the non-destructive
// merge rules that fold a patch into an existing record.
//
// A Record is only ever mutated through Merge; capture channels produce
// Patches and never assign fields directly. Merge privileges whatever is
// already present: a non-empty field is never overwritten by a patch, and
// Notes is the single append-only exception, accumulating contributions from
// every channel.
package contact
