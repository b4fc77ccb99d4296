// Package fileutil holds the filesystem writes used when saving into a media
// library: streaming a body to a path and atomically replacing small files.
package fileutil
