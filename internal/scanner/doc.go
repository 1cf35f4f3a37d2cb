// Package scanner drives the per-frame QR decode loop over a live frame
// source and one-shot decoding of uploaded stills.
//
// The loop is a self-rescheduling task: each tick does bounded synchronous
// work (read one frame, attempt one decode) and then waits for the next
// tick, unless stopped. A successful decode is accepted only when the
// debounce window has elapsed since the last accepted decode, which rejects
// repeat reads of a still-visible code across consecutive ticks. The default
// policy is single-shot: an accepted decode stops the loop.
//
// The decode primitive and the frame source are both injected, so camera
// acquisition and the actual barcode engine stay external collaborators.
package scanner
