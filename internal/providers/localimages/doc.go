// Package localimages is a local image provider that lists artwork already
// stored beside an item, using the same file names imagesaver writes.
package localimages
