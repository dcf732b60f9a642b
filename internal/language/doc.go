// Package language normalizes the spoken-language setting passed to the
// transcription backends.
//
// Users may write ISO 639-1 codes ("ru"), ISO 639-2 codes ("rus", "ger"),
// English names ("russian"), or full BCP 47 tags ("pt-BR"); every backend
// receives the two-letter base code.
package language
