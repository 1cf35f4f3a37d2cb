// Package imaging conditions raw still frames for recognition. The
// transformations are pure and deterministic: proportional downscaling to an
// OCR width budget, luma-weighted grayscale conversion, fixed contrast and
// brightness adjustment, optional mean-threshold binarization, and centered
// aspect-ratio cropping for card capture. Each function returns a new buffer
// and never mutates its input.
package imaging
