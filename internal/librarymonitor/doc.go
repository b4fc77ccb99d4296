// Package librarymonitor tracks library paths that curator itself is
// writing so filesystem watchers can ignore the resulting change events.
//
// Writers call ReportChangeBeginning before touching a path and
// ReportChangeComplete afterwards. A path stays ignored while any writer is
// active and for a short grace window after the last one finishes, which
// absorbs the trailing events many filesystems emit after close.
package librarymonitor
