// Package language provides language code normalization for metadata
// preferences and remote image tags.
//
// Providers and configuration spell languages in several ways ("en",
// "eng", "en-US", "English"). Everything that compares languages goes
// through Base so those spellings agree.
package language
