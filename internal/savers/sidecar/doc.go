// Package sidecar persists item metadata as a JSON document next to the
// media and reads it back.
//
// Saver is a file-backed metadata saver; Reader is the matching local
// metadata provider. Folder items (series, albums) store curator.json inside
// their directory; other items store <basename>.curator.json beside the file.
package sidecar
