// Package imagesaver stores downloaded or uploaded artwork beside library
// items using conventional file names (poster.jpg, backdrop1.jpg, logo.png).
//
// Writes go through a LibraryWriter, normally the dispatch Manager, so image
// saves share the per-path lock and change notifications used for metadata.
package imagesaver
